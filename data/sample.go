// Package data embeds the sample document served when no other corpus has
// been ingested.
package data

import (
	_ "embed"

	"github.com/docuforge/docchat/core"
)

//go:embed policy_manual.md
var policyManual string

// SampleSourceLabel identifies chunks originating from the sample document.
const SampleSourceLabel = "company-policy-manual"

// SampleDocument returns the built-in policy manual and its metadata.
func SampleDocument() (string, core.DocumentInfo) {
	return policyManual, core.DocumentInfo{
		Title:       "Company Policy Manual",
		Description: "company policies, procedures, and employee benefits information",
		Type:        "policy-manual",
	}
}
