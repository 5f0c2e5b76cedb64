package models

// BusinessProfile is a single lead surfaced by the scout service.
type BusinessProfile struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Industry    string            `json:"industry"`
	Location    string            `json:"location"`
	Website     *string           `json:"website"`
	Phone       string            `json:"phone"`
	Email       *string           `json:"email"`
	SocialMedia map[string]string `json:"social_media"`
	SourceURL   string            `json:"source_url"`
	Rating      *float64          `json:"rating"`
	ReviewCount *int              `json:"review_count"`
}

// Request bodies use pointer fields so a missing field (rejected) can be told
// apart from an empty string (accepted).

type ScoutRequest struct {
	Industry *string `json:"industry" binding:"required"`
	Location *string `json:"location" binding:"required"`
	Page     int     `json:"page"`
}

// Query returns the lead lookup described by the body. Pages start at 1.
func (r ScoutRequest) Query() ScoutQuery {
	q := ScoutQuery{Industry: *r.Industry, Location: *r.Location, Page: r.Page}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

type ScoutQuery struct {
	Industry string
	Location string
	Page     int
}

type AnalyzeBody struct {
	BusinessName *string `json:"business_name" binding:"required"`
	Industry     *string `json:"industry" binding:"required"`
	Location     *string `json:"location" binding:"required"`
	Website      *string `json:"website"`
}

func (b AnalyzeBody) Request() AnalyzeRequest {
	return AnalyzeRequest{
		BusinessName: *b.BusinessName,
		Industry:     *b.Industry,
		Location:     *b.Location,
		Website:      b.Website,
	}
}

type AnalyzeRequest struct {
	BusinessName string  `json:"business_name"`
	Industry     string  `json:"industry"`
	Location     string  `json:"location"`
	Website      *string `json:"website"`
}

// HasWebsite reports whether a non-empty website was supplied.
func (r AnalyzeRequest) HasWebsite() bool {
	return r.Website != nil && *r.Website != ""
}

type AnalysisResult struct {
	AuditScore      int      `json:"audit_score"`
	PainPoints      []string `json:"pain_points"`
	Improvements    []string `json:"improvements"`
	OutreachMessage string   `json:"outreach_message"`
}

type VerifyEmailRequest struct {
	Email *string `json:"email" binding:"required"`
}

type VerifyEmailResponse struct {
	Status string `json:"status"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
