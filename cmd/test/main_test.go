package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilenameFromDisposition(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: `attachment; filename="leads-plumbing-austin-tx-p1.xlsx"`, want: "leads-plumbing-austin-tx-p1.xlsx"},
		{header: `attachment`, want: "leads.xlsx"},
		{header: ``, want: "leads.xlsx"},
		{header: `attachment; filename="unterminated`, want: "leads.xlsx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filenameFromDisposition(tt.header), tt.header)
	}
}

func TestNewTestClientTrimsSlash(t *testing.T) {
	tc := NewTestClient("http://localhost:8080/")
	assert.Equal(t, "http://localhost:8080", tc.baseURL)
}
