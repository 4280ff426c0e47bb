package schema

import (
	"regexp"
	"strings"
)

var (
	unsafeFileCharsRegex = regexp.MustCompile(`[()\s]`)
	repeatedUnderscore   = regexp.MustCompile(`_+`)
)

// SafeSectionName turns a section label into a file name fragment.
// "ASB 1 (PET)" becomes "ASB_1_PET".
func SafeSectionName(section Section) string {
	safe := unsafeFileCharsRegex.ReplaceAllString(string(section), "_")
	safe = repeatedUnderscore.ReplaceAllString(safe, "_")
	return strings.TrimSuffix(safe, "_")
}

// ReportSheetName returns the worksheet title for a section filter.
func ReportSheetName(section Section) string {
	if section == "" {
		return AllProductionSheet
	}
	return string(section)
}

// ReportFileName returns the download file name for a section filter.
func ReportFileName(section Section) string {
	if section == "" {
		return ReportFileAll
	}
	return ReportFilePrefix + SafeSectionName(section) + ".xlsx"
}

// YesNo renders a flag the way the report expects it.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
