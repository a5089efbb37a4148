package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/text/encoding/ianaindex"
)

// PlanList is the root of a provider feed:
//
//	<planList><output>
//	  <base_plan base_plan_id sell_mode organizer_company_id title>
//	    <plan plan_id plan_start_date plan_end_date sell_from sell_to sold_out>
//	      <zone zone_id name capacity price numbered/>
//	    </plan>
//	  </base_plan>
//	</output></planList>
//
// Every attribute is kept as text; ToCatalog decides what is usable.
type PlanList struct {
	XMLName xml.Name `xml:"planList"`
	Output  Output   `xml:"output"`
}

type Output struct {
	BasePlans []BasePlan `xml:"base_plan"`
}

type BasePlan struct {
	BasePlanID         string `xml:"base_plan_id,attr"`
	SellMode           string `xml:"sell_mode,attr"`
	OrganizerCompanyID string `xml:"organizer_company_id,attr"`
	Title              string `xml:"title,attr"`
	Plans              []Plan `xml:"plan"`
}

type Plan struct {
	PlanID    string `xml:"plan_id,attr"`
	StartDate string `xml:"plan_start_date,attr"`
	EndDate   string `xml:"plan_end_date,attr"`
	SellFrom  string `xml:"sell_from,attr"`
	SellTo    string `xml:"sell_to,attr"`
	SoldOut   string `xml:"sold_out,attr"`
	Zones     []Zone `xml:"zone"`
}

type Zone struct {
	ZoneID   string `xml:"zone_id,attr"`
	Name     string `xml:"name,attr"`
	Capacity string `xml:"capacity,attr"`
	Price    string `xml:"price,attr"`
	Numbered string `xml:"numbered,attr"`
}

// Decode parses a feed body. Unknown elements and attributes are ignored.
func Decode(body []byte) (*PlanList, error) {
	var list PlanList
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode plan feed: %w", err)
	}
	return &list, nil
}

// charsetReader transcodes feeds that declare a non UTF-8 encoding, such as
// ISO-8859-1, into UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported feed charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported feed charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
