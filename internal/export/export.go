// Package export serializes lead lists to row-oriented tabular formats.
package export

import (
	"strconv"

	"github.com/tars-systems/leadscout/internal/model"
)

// notAvailable renders an absent CEO at the presentation boundary. It never
// appears inside the pipeline's data structures.
const notAvailable = "Not Available"

// Columns is the fixed export column order.
var Columns = []string{
	"Company",
	"Website",
	"Phone",
	"Address",
	"Rating",
	"Description",
	"Email",
	"CEO",
	"Company LinkedIn",
	"CEO LinkedIn",
}

// Row renders one lead as an export row in the fixed column order.
func Row(c model.Candidate) []string {
	rating := ""
	if c.Rating > 0 {
		rating = strconv.FormatFloat(c.Rating, 'f', -1, 64)
	}

	ceoName := notAvailable
	ceoURL := ""
	if c.CEO != nil {
		ceoName = c.CEO.Name
		ceoURL = c.CEO.ProfileURL
	}

	return []string{
		c.Name,
		c.Website,
		c.Phone,
		c.Address,
		rating,
		c.Description,
		c.Email,
		ceoName,
		c.CompanyProfileURL,
		ceoURL,
	}
}
