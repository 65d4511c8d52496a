// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dmdoc

package jsonschema

import (
	"regexp"
	"strings"
)

// DraftInfo describes the JSON Schema dialect declared by "$schema".
type DraftInfo struct {
	// Canonical is the normalized draft name, for example "2020-12" or "draft-07".
	Canonical string
	// Supported reports whether the adapter understands the draft.
	Supported bool
}

var (
	// datedDraftPattern matches "2020-12" style dialect identifiers.
	datedDraftPattern = regexp.MustCompile(`(?:^|/)(\d{4}-\d{2})(?:/|$)`)
	// numberedDraftPattern matches "draft-07" style dialect identifiers.
	numberedDraftPattern = regexp.MustCompile(`draft-0?(\d+)`)
)

// supportedDrafts lists dialects whose keywords the converter reads.
var supportedDrafts = map[string]struct{}{
	"2020-12":  {},
	"2019-09":  {},
	"draft-07": {},
	"draft-06": {},
	"draft-05": {},
	"draft-04": {},
}

// DetectDraft normalizes a "$schema" URI or bare draft name.
func DetectDraft(schema string) DraftInfo {
	value := strings.TrimSpace(schema)
	value = strings.TrimSuffix(value, "#")
	value = strings.TrimSuffix(value, "/schema")
	value = strings.TrimSuffix(value, "/schema/")
	value = strings.TrimSuffix(value, "/")
	if value == "" {
		return DraftInfo{}
	}

	canonical := ""
	switch {
	case datedDraftPattern.MatchString(value):
		canonical = datedDraftPattern.FindStringSubmatch(value)[1]
	case numberedDraftPattern.MatchString(value):
		number := numberedDraftPattern.FindStringSubmatch(value)[1]
		if len(number) == 1 {
			number = "0" + number
		}

		canonical = "draft-" + number
	default:
		return DraftInfo{Canonical: value}
	}

	_, supported := supportedDrafts[canonical]
	return DraftInfo{Canonical: canonical, Supported: supported}
}

// String formats draft support for logs and documentation.
func (info DraftInfo) String() string {
	if !info.Supported {
		if strings.TrimSpace(info.Canonical) != "" {
			return "unknown (" + info.Canonical + ")"
		}

		return "unknown"
	}

	return "supported (" + info.Canonical + ")"
}
