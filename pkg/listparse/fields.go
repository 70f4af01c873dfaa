package listparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Ramsey-B/aster/pkg/models"
)

var (
	strictIDRe      = regexp.MustCompile(`([A-Z]{2}[ei])\.(\d{3})`)
	strictIDStartRe = regexp.MustCompile(`^\s*[A-Z]{2}[ei]\.\d{3}`)
	strictIDNameRe  = regexp.MustCompile(`(?:^|[\n\r])\s*[A-Z]{2}[ei]\.\d{3}\s+(?:Nom|Name):`)
	dashedIDRe      = regexp.MustCompile(`-\s+(\d+):\s+[A-Z]+`)
	genericIDRe     = regexp.MustCompile(`([A-Z]{2,3})\.\d+`)
	genericIDStart  = regexp.MustCompile(`^\s*[A-Z]{2,3}\.\d+`)
	genericIDNameRe = regexp.MustCompile(`\b[A-Z]{2,3}\.\d+\s+(?:Nom|Name):`)

	parenRe          = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	letteredMarkerRe = regexp.MustCompile(`(?:^|\s)[a-z]\)\s*`)
	listSplitRe      = regexp.MustCompile(`[;,]|\d+\)`)

	modificationRe = regexp.MustCompile(`(?is)^(.*?)\s*\(\s*(?:modifications|amended)\s+([^)]+)\)`)
	modDateSplitRe = regexp.MustCompile(`\s*[\n\r]+\s*|\s*,\s*|\s+et\s+|\s+and\s+`)
	simpleDateRe   = regexp.MustCompile(`(?i)(?:Date d'inscription|Listed on):\s*(\d{1,2}\s+[a-zéû]+\.?\s+\d{4})`)
	flexibleDateRe = regexp.MustCompile(`(?i)(?:Date d'inscription|Listed on):\s*([^()]+?)\s*(?:\(|$)`)

	nextEntryMarkerRe = regexp.MustCompile(`[A-Z]{2,3}\.\d+|\d+\s*:\s*[A-Z]+|- \d+:`)
	associatedRe      = regexp.MustCompile(`associée? à (.+?)(?:\.|$)`)
	physicalDescRe    = regexp.MustCompile(`(?i)Description physique\s*:\s*(.+?)(?:\.|Parle|Recherché|Photographie|$)`)
	languagesRe       = regexp.MustCompile(`(?i)Parle\s+(.+?)(?:\.|Recherché|Photographie|$)`)
	interpolRe        = regexp.MustCompile(`(?i)(?:Notice spéciale INTERPOL-Conseil de sécurité de l'Organisation des Nations Unies|INTERPOL-UN Security Council Special Notice)[^.]*`)
	resolutionRe      = regexp.MustCompile(`(?i)(?:application de la résolution|pursuant to resolution)\s+(\d+)\s*\((\d+)\)`)
	lastUpdatedRe     = regexp.MustCompile(`(?i)(?:modifications|révision|s'est achevé le)\s+(\d{1,2}\s+[a-zéû]+\.?\s+\d{4})`)
	statusRe          = regexp.MustCompile(`(?i)Interdite? (?:au|en|à) .+?\.`)
)

func trimSpan(s string) string {
	return strings.TrimSpace(s)
}

// extractID pulls the span's identifier and resolves the entry type from its
// suffix. Preference order: a strict two-letter + i/e code at the start of
// the span or right before a name label, then a dashed-component number,
// then any 2-3 letter code, then a synthetic fallback.
func extractID(span string, fallback models.EntryType, rc *runContext) (string, models.EntryType) {
	if m := firstMatch(span, strictIDStartRe, strictIDNameRe); m != "" {
		id := strictIDRe.FindString(m)
		return id, typeFromID(id, fallback)
	}

	if m := dashedIDRe.FindStringSubmatch(span); m != nil {
		return "COMP." + m[1], fallback
	}

	if m := firstMatch(span, genericIDStart, genericIDNameRe); m != "" {
		id := genericIDRe.FindString(m)
		return id, typeFromID(id, fallback)
	}

	return rc.syntheticID(fallback), fallback
}

func firstMatch(span string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindString(span); m != "" {
			return m
		}
	}
	return ""
}

// typeFromID resolves person/entity from the letter prefix: codes ending in
// "i" are individuals, codes ending in "e" are entities, anything else keeps
// the caller's fallback.
func typeFromID(id string, fallback models.EntryType) models.EntryType {
	m := genericIDRe.FindStringSubmatch(id)
	if m == nil {
		return fallback
	}
	switch {
	case strings.HasSuffix(m[1], "i"):
		return models.EntryTypePerson
	case strings.HasSuffix(m[1], "e"):
		return models.EntryTypeEntity
	}
	return fallback
}

// parsePerson extracts an individual record from one entry span
func parsePerson(span string, rc *runContext) *models.Entry {
	id, typ := extractID(span, models.EntryTypePerson, rc)
	if typ == models.EntryTypeEntity {
		return parseEntity(span, rc)
	}

	e := models.NewPersonEntry(id, capture(span, nameLabel))
	e.OriginalScript = capture(span, originalScriptLabel)
	e.Person.Title = capture(span, titleLabel)
	e.Person.Designation = capture(span, designationLabel)
	e.Person.DateOfBirth = capture(span, dobLabel)
	e.Person.PlaceOfBirth = capture(span, pobLabel)
	e.Person.ReliableAlias = splitList(capture(span, reliableAliasLabel))
	e.Person.UnreliableAlias = splitAliases(capture(span, unreliableAliasLabel))
	e.Person.Nationality = capture(span, nationalityLabel)
	e.Person.PassportNo = capture(span, passportLabel)
	e.Person.NationalID = capture(span, nationalIDLabel)
	e.Address = splitAddress(capture(span, addressLabel))
	e.ListedOn, e.LastUpdated = parseListedOn(span)

	applyOtherInfo(span, e)
	applyStatus(span, e)

	return e
}

// parseEntity extracts an organization record from one entry span
func parseEntity(span string, rc *runContext) *models.Entry {
	id, typ := extractID(span, models.EntryTypeEntity, rc)
	if typ == models.EntryTypePerson {
		return parsePerson(span, rc)
	}

	e := models.NewEntityEntry(id, capture(span, nameLabel))
	e.OriginalScript = capture(span, originalScriptLabel)
	e.Entity.OtherNames = splitList(capture(span, otherNamesLabel))
	e.Entity.PreviouslyKnownAs = splitList(capture(span, previouslyKnownLabel))
	e.Address = splitAddress(capture(span, addressLabel))
	e.ListedOn, e.LastUpdated = parseListedOn(span)

	applyOtherInfo(span, e)
	applyStatus(span, e)

	return e
}

// Labels of the alternative English-only format. Stops are literal because
// this format never mixes languages.
var (
	altNameRe     = regexp.MustCompile(`(?is)Name:\s*\d*\s*(.+?)\s*(?:Original|Listed|A\.k\.a)`)
	altAliasRe    = regexp.MustCompile(`(?is)A\.k\.a\.?:?\s*(.+?)\s*(?:Date of birth|Nationality|Address|Listed on)`)
	altDOBRe      = regexp.MustCompile(`(?is)(?:Date of birth|DOB):\s*(.+?)\s*(?:Place of birth|POB|Nationality|Address|Listed on)`)
	altPOBRe      = regexp.MustCompile(`(?is)(?:Place of birth|POB):\s*(.+?)\s*(?:Nationality|Address|Listed on)`)
	altNatRe      = regexp.MustCompile(`(?is)Nationality:\s*(.+?)\s*(?:Passport|National identification|Address|Listed on)`)
	altPassportRe = regexp.MustCompile(`(?is)Passport:\s*(.+?)\s*(?:National identification|Address|Listed on)`)
	altIDRe       = regexp.MustCompile(`(?is)(?:National identification|National ID):\s*(.+?)\s*(?:Address|Listed on)`)
)

// parseAlternative extracts a person record from the alternative English-only
// format ("N. Name: ... Original|Listed"). IDs are positional.
func parseAlternative(span string, index int) *models.Entry {
	e := models.NewPersonEntry("ALT."+strconv.Itoa(index), "")

	if m := altNameRe.FindStringSubmatch(span); m != nil {
		e.Name = trimSpan(m[1])
	}
	if m := altAliasRe.FindStringSubmatch(span); m != nil {
		e.Person.ReliableAlias = splitList(m[1])
	}
	if m := altDOBRe.FindStringSubmatch(span); m != nil {
		e.Person.DateOfBirth = trimSpan(m[1])
	}
	if m := altPOBRe.FindStringSubmatch(span); m != nil {
		e.Person.PlaceOfBirth = trimSpan(m[1])
	}
	if m := altNatRe.FindStringSubmatch(span); m != nil {
		e.Person.Nationality = trimSpan(m[1])
	}
	if m := altPassportRe.FindStringSubmatch(span); m != nil {
		e.Person.PassportNo = trimSpan(m[1])
	}
	if m := altIDRe.FindStringSubmatch(span); m != nil {
		e.Person.NationalID = trimSpan(m[1])
	}
	e.Address = splitAddress(capture(span, addressLabel))
	e.ListedOn, e.LastUpdated = parseListedOn(span)

	return e
}

// splitAddress turns the captured address text into one or more address
// lines. Parenthetical asides are stripped first; lettered markers
// (a) ... b) ...) win over semicolon/comma splitting; a plain string becomes
// a single line. The result is always a slice.
func splitAddress(text string) []string {
	text = trimSpan(parenRe.ReplaceAllString(text, " "))
	if text == "" {
		return []string{}
	}

	if parts, ok := splitLettered(text); ok {
		return parts
	}

	var parts []string
	for _, part := range strings.FieldsFunc(text, func(r rune) bool { return r == ';' || r == ',' }) {
		if part = trimSpan(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return []string{text}
	}
	return parts
}

// splitLettered splits on a) b) c) markers, reporting whether any were found
func splitLettered(text string) ([]string, bool) {
	locs := letteredMarkerRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, false
	}

	var parts []string
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if seg := trimSpan(text[loc[1]:end]); seg != "" {
			parts = append(parts, seg)
		}
	}
	return parts, true
}

// splitList splits alias/name enumerations on ";", "," or numbered markers
// like "1)", trimming stray list punctuation off each token.
func splitList(text string) []string {
	var parts []string
	for _, part := range listSplitRe.Split(text, -1) {
		if part = strings.Trim(part, " \t\n\r,;:"); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// splitAliases is splitList with lettered-marker awareness, for alias lists
// written as "a) X b) Y".
func splitAliases(text string) []string {
	if parts, ok := splitLettered(text); ok {
		return parts
	}
	return splitList(text)
}

// parseListedOn extracts the listing date and, when an amendment
// parenthetical is present, the last amendment date. Three patterns of
// decreasing strictness are tried until one yields text.
func parseListedOn(span string) (listedOn, lastUpdated string) {
	raw := capture(span, listedOnLabel)
	if raw != "" {
		if m := modificationRe.FindStringSubmatch(raw); m != nil {
			listedOn = trimSpan(m[1])
			dates := modDateSplitRe.Split(m[2], -1)
			for i := len(dates) - 1; i >= 0; i-- {
				if d := trimSpan(dates[i]); d != "" {
					lastUpdated = d
					break
				}
			}
		} else {
			listedOn = raw
		}
	}

	if listedOn == "" {
		if m := simpleDateRe.FindStringSubmatch(span); m != nil {
			listedOn = trimSpan(m[1])
		}
	}
	if listedOn == "" {
		if m := flexibleDateRe.FindStringSubmatch(span); m != nil {
			listedOn = trimSpan(m[1])
		}
	}

	if lastUpdated == "" {
		if m := lastUpdatedRe.FindStringSubmatch(span); m != nil {
			lastUpdated = trimSpan(m[1])
		}
	}

	return listedOn, lastUpdated
}

// applyOtherInfo captures the free-text remarks, truncated before any
// embedded next-entry marker or "click here" cross-reference, then pulls the
// optional sub-fields out of the remarks.
func applyOtherInfo(span string, e *models.Entry) {
	raw := capture(span, otherInfoLabel)
	if raw == "" {
		return
	}

	if loc := nextEntryMarkerRe.FindStringIndex(raw); loc != nil {
		raw = trimSpan(raw[:loc[0]])
	}
	for _, marker := range []string{"click here", "cliquez ici"} {
		if i := strings.Index(strings.ToLower(raw), marker); i > -1 {
			raw = trimSpan(raw[:i])
		}
	}
	e.OtherInfo = raw

	for _, m := range associatedRe.FindAllStringSubmatch(raw, -1) {
		if assoc := trimSpan(strings.TrimSuffix(m[1], ".")); assoc != "" {
			e.AssociatedWith = append(e.AssociatedWith, assoc)
		}
	}

	if m := physicalDescRe.FindStringSubmatch(raw); m != nil {
		e.PhysicalDescription = trimSpan(m[1])
	}
	if m := languagesRe.FindStringSubmatch(raw); m != nil {
		e.Languages = trimSpan(m[1])
	}
	if m := interpolRe.FindString(raw); m != "" {
		e.Interpol = trimSpan(m)
	}
	if m := resolutionRe.FindStringSubmatch(raw); m != nil {
		e.Resolution = m[1] + " (" + m[2] + ")"
	}
}

func applyStatus(span string, e *models.Entry) {
	if m := statusRe.FindString(span); m != "" {
		e.Status = trimSpan(strings.TrimSuffix(m, "."))
	}
}
