package scout

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sitescout/sitescout-api/internal/models"
)

// LeadsPerPage is the number of profiles every scout call returns.
const LeadsPerPage = 10

var (
	baseNames = []string{"Apex", "Elite", "Prime", "Cornerstone", "Trusted", "Summit", "Vanguard", "Pinnacle", "NextLevel", "Local"}
	suffixes  = []string{"Solutions", "Services", "Inc", "Co", "Group", "Partners", "Associates", "Pros"}
)

// synthesize builds a page of plausible leads. Identical arguments always
// produce identical output.
func synthesize(industry, location string, page int) []models.BusinessProfile {
	rng := newSeededRand(SeedKey(industry, location, page))
	domainIndustry := strings.ToLower(strings.ReplaceAll(industry, " ", ""))

	results := make([]models.BusinessProfile, 0, LeadsPerPage)
	for range LeadsPerPage {
		hasSite := rng.OneIn(5)

		base := rng.Choice(baseNames)
		suffix := rng.Choice(suffixes)
		name := fmt.Sprintf("%s %s %s", base, capitalize(industry), suffix)
		if page > 1 {
			name += fmt.Sprintf(" %d", page)
		}

		sanitized := sanitize(name)

		var website *string
		email := sanitized + "@gmail.com"
		if hasSite {
			domain := strings.ToLower(base) + domainIndustry + ".com"
			site := "www." + domain
			website = &site
			email = "contact@" + domain
		}

		socials := map[string]string{}
		if rng.Float64() > 0.3 {
			socials["linkedin"] = "https://linkedin.com/company/" + sanitized
		}
		if rng.Float64() > 0.6 {
			socials["twitter"] = "https://twitter.com/" + sanitized
		}
		if rng.Float64() > 0.6 {
			socials["facebook"] = "https://facebook.com/" + sanitized
		}

		rating := math.Round(rng.Uniform(3.5, 4.9)*10) / 10
		reviewCount := rng.Between(10, 500)
		phone := fmt.Sprintf("(555) %d-%d", rng.Between(100, 999), rng.Between(1000, 9999))

		results = append(results, models.BusinessProfile{
			ID:          BusinessID(name),
			Name:        name,
			Industry:    industry,
			Location:    location,
			Website:     website,
			Phone:       phone,
			Email:       &email,
			SocialMedia: socials,
			SourceURL:   SourceURL(name, location),
			Rating:      &rating,
			ReviewCount: &reviewCount,
		})
	}
	return results
}

// BusinessID derives a stable identifier from a business name.
func BusinessID(name string) string {
	sum := md5.Sum([]byte(name))
	return "biz_" + hex.EncodeToString(sum[:])[:10]
}

// SourceURL is the search link a lead can be checked against.
func SourceURL(name, location string) string {
	return "https://www.google.com/search?q=" + strings.ReplaceAll(name, " ", "+") + "+" + strings.ReplaceAll(location, " ", "+")
}

func sanitize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", ""))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
