package listparse

import (
	"regexp"
	"strings"

	"github.com/Ramsey-B/aster/pkg/models"
)

var (
	entityPassRe  = regexp.MustCompile(`[A-Z]{2}e\.\d{3}\s+(?:Nom|Name):`)
	personPassRe  = regexp.MustCompile(`[A-Z]{2}i\.\d{3}\s+(?:Nom|Name):`)
	genericPassRe = regexp.MustCompile(`([A-Z]{2}[ie]|[A-Z]{2,3})\.(\d{3}|\d+)\s+(?:Nom|Name):`)
	strictFormRe  = regexp.MustCompile(`^[A-Z]{2}[ie]\.\d{3}$`)
	nextEntryRe   = regexp.MustCompile(`[A-Z]{2,3}\.\d+\s+(?:Nom|Name):`)
	embeddedIDRe  = regexp.MustCompile(`\b[A-Z]{2,3}\.\d+\b`)

	numericPassRe   = regexp.MustCompile(`\b(\d+)\s*\.\s*Nom:`)
	dashedPassRe    = regexp.MustCompile(`-\s+(\d+):\s+[A-Z]+(?:\s+\d+:\s+[A-Z]+)+`)
	dashedNextRe    = regexp.MustCompile(`\n- \d+:|\nNom:|\n[A-Z]{2,3}\.\d+`)
	nameComponentRe = regexp.MustCompile(`\d+:\s*([A-Z]+)`)
	altPassRe       = regexp.MustCompile(`\d+\. Name:\s*\d*\s*(.+?)\s*(?:Original|Listed)`)

	entityFieldsRe = regexp.MustCompile(`(?i)Autre\(s\) nom\(s\) connu\(s\)|Précédemment connu\(e\)`)
	personFieldsRe = regexp.MustCompile(`(?i)Date de naissance|Lieu de naissance|Pseudonyme peu fiable`)
)

// entityPass captures strict-format entity entries (two letters + "e" + three
// digits followed by a name label). Each span runs to the next such match.
func (p *Parser) entityPass(text string, rc *runContext, entries []*models.Entry) []*models.Entry {
	locs := entityPassRe.FindAllStringIndex(text, -1)
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		entry := parseEntity(text[loc[0]:end], rc)
		entries = appendEntry(entries, entry, rc)
	}
	return entries
}

// personPass captures strict-format individual entries ("i" suffix). A span
// is truncated early when it swallows a cross-reference: an embedded foreign
// ID demarcated by a "click here" link.
func (p *Parser) personPass(text string, rc *runContext, entries []*models.Entry) []*models.Entry {
	locs := personPassRe.FindAllStringIndex(text, -1)
	for i, loc := range locs {
		start := loc[0]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		// Skip past this entry's own ID before probing for embedded ones
		probeFrom := start + 10
		if probeFrom < end {
			if idLoc := embeddedIDRe.FindStringIndex(text[probeFrom:end]); idLoc != nil {
				embeddedAt := probeFrom + idLoc[0]
				if clickAt := strings.LastIndex(text[start:embeddedAt], "click here"); clickAt > -1 {
					end = start + clickAt
				}
			}
		}

		entry := parsePerson(text[start:end], rc)
		entries = appendEntry(entries, entry, rc)
	}
	return entries
}

// genericPass relaxes the ID shape to catch entries the strict passes missed.
// IDs already in strict format were handled earlier and are skipped. Type
// falls back from the ID suffix to field presence, defaulting to person.
func (p *Parser) genericPass(text string, rc *runContext, entries []*models.Entry) []*models.Entry {
	for _, m := range genericPassRe.FindAllStringSubmatchIndex(text, -1) {
		prefix := text[m[2]:m[3]]
		number := text[m[4]:m[5]]
		id := prefix + "." + number

		if rc.hasID(id) || strictFormRe.MatchString(id) {
			continue
		}

		start := m[0]
		end := min(start+p.config.MaxSpanBytes, len(text))
		if next := nextEntryRe.FindStringIndex(text[start+1:]); next != nil {
			end = start + 1 + next[0]
		}
		span := text[start:end]

		var entry *models.Entry
		switch {
		case strings.HasSuffix(prefix, "i"):
			entry = parsePerson(span, rc)
		case strings.HasSuffix(prefix, "e"):
			entry = parseEntity(span, rc)
		case entityFieldsRe.MatchString(span) && !personFieldsRe.MatchString(span):
			entry = parseEntity(span, rc)
		default:
			entry = parsePerson(span, rc)
		}

		entries = appendEntry(entries, entry, rc)
		rc.addID(id)
	}
	return entries
}

// numericPass catches entries keyed by bare numeric IDs. Looser than the ID
// passes, so it also deduplicates on the lowercased name.
func (p *Parser) numericPass(text string, rc *runContext, entries []*models.Entry) []*models.Entry {
	for _, m := range numericPassRe.FindAllStringSubmatchIndex(text, -1) {
		id := "NUM." + text[m[2]:m[3]]
		if rc.hasID(id) {
			continue
		}

		start := m[0]
		end := min(start+p.config.MaxSpanBytes, len(text))
		if next := strings.Index(text[start+10:], "Nom:"); next > -1 && start+10+next < end {
			end = start + 10 + next
		}

		entry := parsePerson(text[start:end], rc)
		entry.ID = id

		if entry.Name == "" || rc.hasName(entry.Name) {
			continue
		}

		entries = append(entries, entry)
		rc.addID(id)
		rc.addName(entry.Name)
	}
	return entries
}

// dashedPass catches name records written as dash-prefixed component lists
// ("- 1: TAHA 2: IBRAHIM"). The same person usually also appears as a labeled
// entry, so dedup is by substring overlap against every captured name.
func (p *Parser) dashedPass(text string, rc *runContext, entries []*models.Entry) []*models.Entry {
	for _, m := range dashedPassRe.FindAllStringSubmatchIndex(text, -1) {
		id := "COMP." + text[m[2]:m[3]]
		if rc.hasID(id) {
			continue
		}

		full := trimSpan(text[m[0]:m[1]])
		if rc.hasOverlappingName(full) {
			continue
		}

		start := m[0]
		end := len(text)
		if next := dashedNextRe.FindStringIndex(text[start+10:]); next != nil {
			end = start + 10 + next[0]
		}

		entry := parsePerson(text[start:end], rc)
		entry.ID = id
		if entry.Name == "" {
			// No labeled name in a component list; join the components
			var components []string
			for _, c := range nameComponentRe.FindAllStringSubmatch(full, -1) {
				components = append(components, c[1])
			}
			entry.Name = strings.Join(components, " ")
		}

		if entry.Name == "" {
			continue
		}

		entries = append(entries, entry)
		rc.addID(id)
		rc.addName(entry.Name)
	}
	return entries
}

// altEnglishPass catches the alternative English-only label format. IDs are
// positional since the format carries none.
func (p *Parser) altEnglishPass(text string, rc *runContext, entries []*models.Entry) []*models.Entry {
	locs := altPassRe.FindAllStringSubmatchIndex(text, -1)
	for i, m := range locs {
		index := i + 1
		name := trimSpan(text[m[2]:m[3]])
		if name == "" || rc.hasName(name) {
			continue
		}

		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		entry := parseAlternative(text[m[0]:end], index)
		if entry.Name == "" || rc.hasID(entry.ID) {
			continue
		}

		entries = append(entries, entry)
		rc.addID(entry.ID)
		rc.addName(entry.Name)
	}
	return entries
}

// appendEntry adds an entry unless its ID was captured by an earlier pass
func appendEntry(entries []*models.Entry, entry *models.Entry, rc *runContext) []*models.Entry {
	if rc.hasID(entry.ID) {
		return entries
	}
	entries = append(entries, entry)
	rc.addID(entry.ID)
	if entry.Name != "" {
		rc.addName(entry.Name)
	}
	return entries
}
