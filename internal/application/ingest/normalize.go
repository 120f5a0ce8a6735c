package ingest

import (
	"strings"

	"github.com/turtacn/patent-prophet/internal/domain/patent"
)

// Field-name alias tables, most specific first. The warehouse export and the
// REST accession path disagree on field names for the same logical
// attribute; each table is the fixed fallback chain for one attribute.
var (
	cpcCodeAliases = []string{
		"code",
		"cpc_subgroup_id", "subgroup_id",
		"cpc_group_id", "group_id",
		"cpc_subclass_id", "subclass_id",
		"cpc_section_id", "section_id",
	}
	ipcCodeAliases = []string{"code", "symbol", "ipc_classification_symbol", "ipc_section"}
	cpcDescAliases = []string{"title", "description", "cpc_subgroup_title"}

	assigneeNameAliases = []string{"name", "organization", "assignee_organization"}
	assigneeIDAliases   = []string{"assignee_id", "id"}

	inventorFirstAliases    = []string{"first_name", "given_name", "firstName", "inventor_first_name"}
	inventorLastAliases     = []string{"last_name", "family_name", "lastName", "inventor_last_name"}
	inventorFullNameAliases = []string{"name", "name_full", "inventor_name"}
	inventorIDAliases       = []string{"inventor_id", "id"}

	countryAliases = []string{"country_code", "country"}
	stateAliases   = []string{"state", "region"}

	citedIDAliases      = []string{"publication_number", "cited_publication_number", "cited_patent_number", "citation_publication_number"}
	citationTypeAliases = []string{"category", "citation_category", "citation_type"}
)

const (
	kindAssignee = "assignee"
	kindInventor = "inventor"
)

// Normalize transforms one raw source record into the canonical patent
// shape. Records without a publication number are rejected by returning nil;
// that id is mandatory and never derived. All other malformed fields degrade
// to absent values rather than failing the record.
func Normalize(record RawRecord) *patent.NormalizedPatent {
	id := readString(record["publication_number"])
	if id == "" {
		return nil
	}

	cpcEntries := asRecordSlice(record["cpc"])
	ipcEntries := asRecordSlice(record["ipc"])
	cpcCodes := classificationCodes(cpcEntries, cpcCodeAliases)
	ipcCodes := classificationCodes(ipcEntries, ipcCodeAliases)

	p := &patent.NormalizedPatent{
		ID:              id,
		Title:           pickLocalizedText(asLocalized(record["title_localized"])),
		Abstract:        pickLocalizedText(asLocalized(record["abstract_localized"])),
		IPCCodes:        ipcCodes,
		CPCCodes:        cpcCodes,
		PublicationDate: NormalizeDate(record["publication_date"]),
		PriorityDate:    NormalizeDate(record["priority_date"]),
		FilingDate:      NormalizeDate(record["filing_date"]),
		Assignees:       normalizeAssignees(record),
		Inventors:       normalizeInventors(record),
		Classifications: normalizeClassifications(ipcCodes, cpcCodes, cpcEntries),
		Citations:       normalizeCitations(asRecordSlice(record["citation"])),
	}
	return p
}

// classificationCodes resolves each entry's code over the alias chain,
// dropping entries where no alias holds a value.
func classificationCodes(entries []map[string]any, aliases []string) []string {
	var codes []string
	for _, entry := range entries {
		if code := getString(entry, aliases...); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// normalizeAssignees prefers harmonized structured entries; the flat name
// list is consulted only when no harmonized entry yields a name.
func normalizeAssignees(record RawRecord) []patent.Assignee {
	var out []patent.Assignee
	for _, entry := range asRecordSlice(record["assignee_harmonized"]) {
		name := getString(entry, assigneeNameAliases...)
		if name == "" {
			continue
		}
		id := patent.DerivedID(StableID(kindAssignee, name))
		if native := getString(entry, assigneeIDAliases...); native != "" {
			id = patent.NativeID(native)
		}
		out = append(out, patent.Assignee{
			ID:      id,
			Name:    name,
			Country: getString(entry, countryAliases...),
			State:   getString(entry, stateAliases...),
			City:    getString(entry, "city"),
		})
	}
	if len(out) > 0 {
		return out
	}

	for _, name := range asStringSlice(record["assignee"]) {
		out = append(out, patent.Assignee{
			ID:   patent.DerivedID(StableID(kindAssignee, name)),
			Name: name,
		})
	}
	return out
}

// normalizeInventors applies the same harmonized-over-flat precedence as
// assignees. Explicit first/last name fields win over splitting a combined
// full-name field; entries resolving to neither name part are dropped.
func normalizeInventors(record RawRecord) []patent.Inventor {
	var out []patent.Inventor
	for _, entry := range asRecordSlice(record["inventor_harmonized"]) {
		first := getString(entry, inventorFirstAliases...)
		last := getString(entry, inventorLastAliases...)
		fullName := getString(entry, inventorFullNameAliases...)
		splitFirst, splitLast := splitName(fullName)
		if first == "" {
			first = splitFirst
		}
		if last == "" {
			last = splitLast
		}
		if first == "" && last == "" {
			continue
		}

		id := patent.EntityID{}
		if native := getString(entry, inventorIDAliases...); native != "" {
			id = patent.NativeID(native)
		} else {
			// Hash the source's combined name when present so the derived id
			// survives changes to our own first/last recombination.
			hashName := fullName
			if hashName == "" {
				hashName = strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
			}
			id = patent.DerivedID(StableID(kindInventor, hashName))
		}

		out = append(out, patent.Inventor{
			ID:        id,
			FirstName: first,
			LastName:  last,
			Country:   getString(entry, countryAliases...),
			State:     getString(entry, stateAliases...),
			City:      getString(entry, "city"),
		})
	}
	if len(out) > 0 {
		return out
	}

	for _, name := range asStringSlice(record["inventor"]) {
		first, last := splitName(name)
		if first == "" && last == "" {
			continue
		}
		out = append(out, patent.Inventor{
			ID:        patent.DerivedID(StableID(kindInventor, name)),
			FirstName: first,
			LastName:  last,
		})
	}
	return out
}

// normalizeClassifications emits IPC entries (never described in this
// pipeline) followed by CPC entries, backfilling each CPC description from
// the originating raw entry whose aliased code matches.
func normalizeClassifications(ipcCodes, cpcCodes []string, cpcEntries []map[string]any) []patent.Classification {
	out := make([]patent.Classification, 0, len(ipcCodes)+len(cpcCodes))
	for _, code := range ipcCodes {
		out = append(out, patent.Classification{Code: code, Scheme: patent.SchemeIPC})
	}
	for _, code := range cpcCodes {
		out = append(out, patent.Classification{
			Code:        code,
			Scheme:      patent.SchemeCPC,
			Description: cpcDescription(code, cpcEntries),
		})
	}
	return out
}

func cpcDescription(code string, entries []map[string]any) string {
	for _, entry := range entries {
		for _, alias := range cpcCodeAliases {
			if readString(entry[alias]) == code {
				return getString(entry, cpcDescAliases...)
			}
		}
	}
	return ""
}

// normalizeCitations keeps entries even when the cited id cannot be
// resolved; an unresolved citation is a valid-but-minimal fact and the
// persistence layer stores the absent id as NULL.
func normalizeCitations(entries []map[string]any) []patent.Citation {
	var out []patent.Citation
	for _, entry := range entries {
		out = append(out, patent.Citation{
			CitedPatentID: getString(entry, citedIDAliases...),
			Type:          getString(entry, citationTypeAliases...),
		})
	}
	return out
}
