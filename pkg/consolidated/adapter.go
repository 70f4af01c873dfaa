// Package consolidated maps an already-structured consolidated-list tree
// (decoded XML) directly to normalized entries, bypassing free-text parsing.
package consolidated

import (
	"context"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/extractor"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

// Adapter converts a decoded CONSOLIDATED_LIST tree into entries
type Adapter struct {
	logger ectologger.Logger
	ex     *extractor.Extractor
}

// NewAdapter creates a new Adapter
func NewAdapter(logger ectologger.Logger) *Adapter {
	return &Adapter{
		logger: logger,
		ex:     extractor.New(),
	}
}

// Convert maps every INDIVIDUAL and ENTITY node to an Entry. Collections may
// arrive as a single object or an array; both shapes are handled. A tree
// without CONSOLIDATED_LIST yields an empty slice and a diagnostic log,
// never an error: structural gaps are a data-quality problem.
func (a *Adapter) Convert(ctx context.Context, tree map[string]any) []*models.Entry {
	_, span := tracing.StartSpan(ctx, "consolidated.Adapter.Convert")
	defer span.End()

	log := a.logger.WithContext(ctx)

	entries := make([]*models.Entry, 0)

	if tree == nil {
		log.Error("Consolidated tree is missing the CONSOLIDATED_LIST root")
		return entries
	}
	if _, ok := tree["CONSOLIDATED_LIST"]; !ok {
		log.Error("Consolidated tree is missing the CONSOLIDATED_LIST root")
		return entries
	}

	individuals, _ := a.ex.Extract(tree, "CONSOLIDATED_LIST.INDIVIDUALS.INDIVIDUAL")
	for _, node := range extractor.AsArray(individuals) {
		entries = append(entries, a.convertIndividual(node))
	}

	entities, _ := a.ex.Extract(tree, "CONSOLIDATED_LIST.ENTITIES.ENTITY")
	for _, node := range extractor.AsArray(entities) {
		entries = append(entries, a.convertEntity(node))
	}

	log.WithFields(map[string]any{"entry_count": len(entries)}).Info("Converted consolidated tree")

	return entries
}

func (a *Adapter) convertIndividual(node any) *models.Entry {
	e := models.NewPersonEntry(a.referenceID(node), a.personName(node))
	e.OriginalScript = a.ex.String(node, "NAME_ORIGINAL_SCRIPT")
	e.ListedOn = a.ex.String(node, "LISTED_ON")
	e.OtherInfo = a.ex.String(node, "COMMENTS1")
	e.LastUpdated = a.lastUpdated(node)

	e.Person.Title = a.joinedValues(node, "TITLE.VALUE")
	e.Person.Designation = a.joinedValues(node, "DESIGNATION.VALUE")
	e.Person.Nationality = a.joinedValues(node, "NATIONALITY.VALUE")
	e.Person.DateOfBirth = a.dateOfBirth(node)
	e.Person.PlaceOfBirth = a.placeOfBirth(node)

	a.applyDocuments(node, e)
	a.applyIndividualAliases(node, e)
	e.Address = a.addresses(node, "INDIVIDUAL_ADDRESS")

	return e
}

func (a *Adapter) convertEntity(node any) *models.Entry {
	e := models.NewEntityEntry(a.referenceID(node), a.ex.String(node, "FIRST_NAME"))
	e.OriginalScript = a.ex.String(node, "NAME_ORIGINAL_SCRIPT")
	e.ListedOn = a.ex.String(node, "LISTED_ON")
	e.OtherInfo = a.ex.String(node, "COMMENTS1")
	e.LastUpdated = a.lastUpdated(node)

	for _, aliasNode := range a.nodes(node, "ENTITY_ALIAS") {
		name := a.ex.String(aliasNode, "ALIAS_NAME")
		if name == "" {
			continue
		}
		switch a.ex.String(aliasNode, "QUALITY") {
		case "a.k.a.":
			e.Entity.OtherNames = append(e.Entity.OtherNames, name)
		case "f.k.a.":
			e.Entity.PreviouslyKnownAs = append(e.Entity.PreviouslyKnownAs, name)
		}
	}

	e.Address = a.addresses(node, "ENTITY_ADDRESS")

	return e
}

// nodes returns the field's children, normalized to a slice
func (a *Adapter) nodes(node any, field string) []any {
	v, _ := a.ex.Extract(node, field)
	return extractor.AsArray(v)
}

// referenceID prefers the list's reference number and falls back to the
// internal data ID.
func (a *Adapter) referenceID(node any) string {
	if ref := a.ex.String(node, "REFERENCE_NUMBER"); ref != "" {
		return ref
	}
	return "XML-" + a.ex.String(node, "DATAID")
}

// personName joins the up-to-four name component fields in order
func (a *Adapter) personName(node any) string {
	var parts []string
	for _, field := range []string{"FIRST_NAME", "SECOND_NAME", "THIRD_NAME", "FOURTH_NAME"} {
		if part := a.ex.String(node, field); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// dateOfBirth renders the date-of-birth sub-structure: an exact date, a
// typed year/month/day, or a year range rendered "De <from> à <to>".
func (a *Adapter) dateOfBirth(node any) string {
	dob, _ := a.ex.Extract(node, "INDIVIDUAL_DATE_OF_BIRTH")
	if dob == nil {
		return ""
	}

	if date := a.ex.String(dob, "DATE"); date != "" {
		return date
	}

	var b strings.Builder
	if typeOfDate := a.ex.String(dob, "TYPE_OF_DATE"); typeOfDate != "" {
		b.WriteString(typeOfDate + " ")
	}
	if year := a.ex.String(dob, "YEAR"); year != "" {
		b.WriteString(year)
		if month := a.ex.String(dob, "MONTH"); month != "" {
			b.WriteString("-" + month)
			if day := a.ex.String(dob, "DAY"); day != "" {
				b.WriteString("-" + day)
			}
		}
	}
	if from := a.ex.String(dob, "FROM_YEAR"); from != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString("De " + from)
		if to := a.ex.String(dob, "TO_YEAR"); to != "" {
			b.WriteString(" à " + to)
		}
	}

	return strings.TrimSpace(b.String())
}

func (a *Adapter) placeOfBirth(node any) string {
	pob, _ := a.ex.Extract(node, "INDIVIDUAL_PLACE_OF_BIRTH")
	if pob == nil {
		return ""
	}

	var parts []string
	if city := a.ex.FirstString(pob, "CITY", "CITY_OF_BIRTH"); city != "" {
		parts = append(parts, city)
	}
	if state := a.ex.String(pob, "STATE_PROVINCE"); state != "" {
		parts = append(parts, state)
	}
	if country := a.ex.FirstString(pob, "COUNTRY", "COUNTRY_OF_BIRTH"); country != "" {
		parts = append(parts, country)
	}
	return strings.Join(parts, ", ")
}

// applyDocuments classifies each identification document by keyword into
// passport, national-ID or other, and renders each category as newline-joined
// one-line summaries.
func (a *Adapter) applyDocuments(node any, e *models.Entry) {
	var passports, nationalIDs, otherDocs []string

	for _, doc := range a.nodes(node, "INDIVIDUAL_DOCUMENT") {
		docType := a.ex.String(doc, "TYPE_OF_DOCUMENT")
		docType2 := a.ex.String(doc, "TYPE_OF_DOCUMENT2")
		number := a.ex.String(doc, "NUMBER")
		if docType == "" && docType2 == "" && number == "" {
			continue
		}

		info := number
		typeInfo := docType
		if docType2 != "" {
			if typeInfo != "" {
				typeInfo += ", " + docType2
			} else {
				typeInfo = docType2
			}
		}
		if typeInfo != "" {
			if info != "" {
				info += " (" + typeInfo + ")"
			} else {
				info = "(" + typeInfo + ")"
			}
		}

		var extra []string
		if country := a.ex.FirstString(doc, "COUNTRY_OF_ISSUE", "ISSUING_COUNTRY"); country != "" {
			extra = append(extra, "Pays d'émission: "+country)
		}
		if date := a.ex.String(doc, "DATE_OF_ISSUE"); date != "" {
			extra = append(extra, "Date d'émission: "+date)
		}
		if city := a.ex.String(doc, "CITY_OF_ISSUE"); city != "" {
			extra = append(extra, "Ville d'émission: "+city)
		}
		if note := a.ex.String(doc, "NOTE"); note != "" {
			extra = append(extra, "Note: "+note)
		}
		if len(extra) > 0 {
			info += " - " + strings.Join(extra, ", ")
		}

		kind := strings.ToLower(docType + " " + docType2)
		switch {
		case strings.Contains(kind, "passport") || strings.Contains(kind, "passeport"):
			passports = append(passports, info)
		case strings.Contains(kind, "national") || strings.Contains(kind, "identity") ||
			strings.Contains(kind, "id") || strings.Contains(kind, "identification") ||
			strings.Contains(kind, "carte"):
			nationalIDs = append(nationalIDs, info)
		case info != "":
			otherDocs = append(otherDocs, info)
		}
	}

	if len(passports) > 0 {
		e.Person.PassportNo = strings.Join(passports, "\n")
	}
	if len(nationalIDs) > 0 {
		e.Person.NationalID = strings.Join(nationalIDs, "\n")
	}
	if len(otherDocs) > 0 {
		for i, doc := range otherDocs {
			otherDocs[i] = "Document: " + doc
		}
		docsInfo := strings.Join(otherDocs, "\n")
		if e.OtherInfo != "" {
			e.OtherInfo += "\n" + docsInfo
		} else {
			e.OtherInfo = docsInfo
		}
	}
}

// applyIndividualAliases buckets aliases by their quality flag: Good is
// reliable, Low is unreliable, anything else is skipped.
func (a *Adapter) applyIndividualAliases(node any, e *models.Entry) {
	for _, alias := range a.nodes(node, "INDIVIDUAL_ALIAS") {
		name := a.ex.String(alias, "ALIAS_NAME")
		if name == "" {
			continue
		}
		if dob := a.ex.String(alias, "DATE_OF_BIRTH"); dob != "" {
			name += " (né le: " + dob + ")"
		}

		switch a.ex.String(alias, "QUALITY") {
		case "Good":
			e.Person.ReliableAlias = append(e.Person.ReliableAlias, name)
		case "Low":
			e.Person.UnreliableAlias = append(e.Person.UnreliableAlias, name)
		}
	}
}

func (a *Adapter) addresses(node any, field string) []string {
	lines := make([]string, 0)
	for _, addr := range a.nodes(node, field) {
		var parts []string
		for _, part := range []string{"STREET", "CITY", "STATE_PROVINCE", "COUNTRY", "NOTE"} {
			if v := a.ex.String(addr, part); v != "" {
				parts = append(parts, v)
			}
		}
		if zip := a.ex.String(addr, "ZIP_CODE"); zip != "" {
			parts = append(parts, "Code postal: "+zip)
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, ", "))
		}
	}
	return lines
}

// lastUpdated takes the last element of the repeated update-history field
func (a *Adapter) lastUpdated(node any) string {
	values, _ := a.ex.Extract(node, "LAST_DAY_UPDATED.VALUE")
	if values == nil {
		return ""
	}
	last, _ := extractor.HandleArray(extractor.AsArray(values), extractor.ArrayLast, "")
	if last == nil {
		return ""
	}
	if s, ok := last.(string); ok {
		return s
	}
	return ""
}

// joinedValues renders a single-or-array VALUE node as a comma-joined string
func (a *Adapter) joinedValues(node any, path string) string {
	values, _ := a.ex.Extract(node, path)
	if values == nil {
		return ""
	}
	joined, _ := extractor.HandleArray(extractor.AsArray(values), extractor.ArrayJoin, ", ")
	if s, ok := joined.(string); ok {
		return s
	}
	return ""
}
