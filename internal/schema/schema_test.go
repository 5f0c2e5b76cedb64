package schema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func leadsPayload(n int) []byte {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"name":"Biz %d","industry":"plumbing","location":"Austin, TX","website":null,"phone":"(512) 555-0100","email":null,"rating":4.2,"review_count":31}`, i)
	}
	return []byte("[" + strings.Join(items, ",") + "]")
}

func TestValidateLeads(t *testing.T) {
	assert.NoError(t, ValidateLeads(leadsPayload(10)))
	assert.NoError(t, ValidateLeads(leadsPayload(12)))

	assert.Error(t, ValidateLeads(leadsPayload(3)), "partial results are rejected")
	assert.Error(t, ValidateLeads([]byte(`{"name":"not an array"}`)))
	assert.Error(t, ValidateLeads([]byte(`[{"industry":"no name"},{},{},{},{},{},{},{},{},{}]`)))
}

func TestValidateAudit(t *testing.T) {
	valid := `{"audit_score":25,"pain_points":["a"],"improvements":["b"],"outreach_message":"Subject: hi"}`
	assert.NoError(t, ValidateAudit([]byte(valid)))

	assert.Error(t, ValidateAudit([]byte(`{"audit_score":25}`)))
	assert.Error(t, ValidateAudit([]byte(`{"audit_score":140,"pain_points":[],"improvements":[],"outreach_message":""}`)))
	assert.Error(t, ValidateAudit([]byte(`{"audit_score":"high","pain_points":[],"improvements":[],"outreach_message":""}`)))
}
