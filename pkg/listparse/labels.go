package listparse

import "regexp"

// Field capture is label-delimited: a field's value runs from its start
// label to the nearest following label from the shared stop set, or the end
// of the span. Every extractor cuts against the same stop set so a new label
// only needs to be added once.
var stopRe = regexp.MustCompile(`(?i)Nom \(alphabet d'origine\):|Original script:|Nom:|Name:|Titre:|Title:|Désignation:|Designation:|Date de naissance:|Date of birth:|Lieu de naissance:|Place of birth:|Pseudonyme peu fiable:|Pseudonyme fiable:|Good quality a\.k\.a\.|Low quality a\.k\.a\.|A\.k\.a\.|F\.k\.a\.|Autre\(s\) nom\(s\) connu\(s\):|Précédemment connu\(e\) sous le nom de:|Nationalité:|Nationality:|Numéro de passeport:|Numéro de passport:|Passport no\.?:?|Numéro national d'identification:|Numéro national d'identité:|National identification no\.?:?|Adresse:|Address:|Date d'inscription:|Listed on:|Renseignements divers:|Other information:|Statut:|Status:|Dernière mise à jour:`)

// Start labels per field, French spelling first, English alternative second.
var (
	nameLabel            = regexp.MustCompile(`(?i)(?:Nom|Name):`)
	originalScriptLabel  = regexp.MustCompile(`(?i)(?:Nom \(alphabet d'origine\)|Original script):`)
	titleLabel           = regexp.MustCompile(`(?i)(?:Titre|Title):`)
	designationLabel     = regexp.MustCompile(`(?i)(?:Désignation|Designation):`)
	dobLabel             = regexp.MustCompile(`(?i)(?:Date de naissance|Date of birth):`)
	pobLabel             = regexp.MustCompile(`(?i)(?:Lieu de naissance|Place of birth):`)
	reliableAliasLabel   = regexp.MustCompile(`(?i)(?:Pseudonyme fiable|Good quality a\.k\.a\.?):`)
	unreliableAliasLabel = regexp.MustCompile(`(?i)(?:Pseudonyme peu fiable|Low quality a\.k\.a\.?):`)
	nationalityLabel     = regexp.MustCompile(`(?i)(?:Nationalité|Nationality):`)
	passportLabel        = regexp.MustCompile(`(?i)(?:Numéro de passeport|Numéro de passport|Passport no\.?)\s*:`)
	nationalIDLabel      = regexp.MustCompile(`(?i)(?:Numéro national d'identification|Numéro national d'identité|National identification no\.?)\s*:`)
	otherNamesLabel      = regexp.MustCompile(`(?i)(?:Autre\(s\) nom\(s\) connu\(s\)|A\.k\.a\.?):`)
	previouslyKnownLabel = regexp.MustCompile(`(?i)(?:Précédemment connu\(e\) sous le nom de|F\.k\.a\.?):`)
	addressLabel         = regexp.MustCompile(`(?i)(?:Adresse|Address):`)
	listedOnLabel        = regexp.MustCompile(`(?i)(?:Date d'inscription|Listed on):`)
	otherInfoLabel       = regexp.MustCompile(`(?i)(?:Renseignements divers|Other information):`)
)

// capture returns the trimmed text between the first start-label occurrence
// and the nearest following stop label, "" when the label is absent.
func capture(span string, start *regexp.Regexp) string {
	loc := start.FindStringIndex(span)
	if loc == nil {
		return ""
	}
	rest := span[loc[1]:]
	if stop := stopRe.FindStringIndex(rest); stop != nil {
		rest = rest[:stop[0]]
	}
	return trimSpan(rest)
}
