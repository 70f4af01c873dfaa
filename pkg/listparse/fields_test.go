package listparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/aster/pkg/models"
)

func TestSplitAddress(t *testing.T) {
	t.Run("empty text yields empty slice", func(t *testing.T) {
		parts := splitAddress("")
		assert.NotNil(t, parts)
		assert.Len(t, parts, 0)
	})

	t.Run("lettered markers win over commas", func(t *testing.T) {
		parts := splitAddress("a) Sanaa, Yemen b) Aden, Yemen")
		assert.Equal(t, []string{"Sanaa, Yemen", "Aden, Yemen"}, parts)
	})

	t.Run("semicolons and commas split", func(t *testing.T) {
		parts := splitAddress("Kabul; Kandahar, Afghanistan")
		assert.Equal(t, []string{"Kabul", "Kandahar", "Afghanistan"}, parts)
	})

	t.Run("parenthetical asides are stripped", func(t *testing.T) {
		parts := splitAddress("Tripoli (previously Benghazi); Libya")
		assert.Equal(t, []string{"Tripoli", "Libya"}, parts)
	})

	t.Run("plain text becomes a single line", func(t *testing.T) {
		parts := splitAddress("Damascus")
		assert.Equal(t, []string{"Damascus"}, parts)
	})
}

func TestSplitList(t *testing.T) {
	t.Run("splits on separators", func(t *testing.T) {
		assert.Equal(t, []string{"one", "two", "three"}, splitList("one; two, three"))
	})

	t.Run("splits on numbered markers", func(t *testing.T) {
		assert.Equal(t, []string{"first alias", "second alias"}, splitList("1) first alias 2) second alias"))
	})

	t.Run("empty tokens are dropped", func(t *testing.T) {
		assert.Equal(t, []string{"only"}, splitList(";, only ,;"))
	})
}

func TestSplitAliases(t *testing.T) {
	t.Run("lettered markers", func(t *testing.T) {
		assert.Equal(t, []string{"Abu Hafs", "Al-Yamani"}, splitAliases("a) Abu Hafs b) Al-Yamani"))
	})

	t.Run("falls back to list splitting", func(t *testing.T) {
		assert.Equal(t, []string{"Abu Hafs", "Al-Yamani"}, splitAliases("Abu Hafs; Al-Yamani"))
	})
}

func TestParseListedOn(t *testing.T) {
	t.Run("plain date", func(t *testing.T) {
		listedOn, lastUpdated := parseListedOn("Listed on: 25 Oct. 2010")
		assert.Equal(t, "25 Oct. 2010", listedOn)
		assert.Equal(t, "", lastUpdated)
	})

	t.Run("amendment parenthetical yields last amendment date", func(t *testing.T) {
		listedOn, lastUpdated := parseListedOn("Listed on: 25 Oct. 2010 (amended on 15 Apr. 2014, 1 May 2019)")
		assert.Equal(t, "25 Oct. 2010", listedOn)
		assert.Equal(t, "1 May 2019", lastUpdated)
	})

	t.Run("french modification parenthetical", func(t *testing.T) {
		listedOn, lastUpdated := parseListedOn("Date d'inscription: 3 sept. 2002 (modifications 10 déc. 2015 et 1 juin 2020)")
		assert.Equal(t, "3 sept. 2002", listedOn)
		assert.Equal(t, "1 juin 2020", lastUpdated)
	})

	t.Run("no listing label yields empty values", func(t *testing.T) {
		listedOn, lastUpdated := parseListedOn("Name: Someone")
		assert.Equal(t, "", listedOn)
		assert.Equal(t, "", lastUpdated)
	})
}

func TestTypeFromID(t *testing.T) {
	assert.Equal(t, models.EntryTypePerson, typeFromID("QDi.001", models.EntryTypeEntity))
	assert.Equal(t, models.EntryTypeEntity, typeFromID("QDe.010", models.EntryTypePerson))
	assert.Equal(t, models.EntryTypePerson, typeFromID("IRQ.45", models.EntryTypePerson))
	assert.Equal(t, models.EntryTypeEntity, typeFromID("not an id", models.EntryTypeEntity))
}

func TestApplyOtherInfo(t *testing.T) {
	t.Run("remarks truncate at next entry marker", func(t *testing.T) {
		e := models.NewPersonEntry("QDi.001", "Test")
		applyOtherInfo("Other information: Wanted by authorities QDe.055 Name: stale", e)
		assert.Equal(t, "Wanted by authorities", e.OtherInfo)
	})

	t.Run("remarks truncate at cross reference link", func(t *testing.T) {
		e := models.NewPersonEntry("QDi.001", "Test")
		applyOtherInfo("Other information: Wanted by authorities click here for details", e)
		assert.Equal(t, "Wanted by authorities", e.OtherInfo)
	})

	t.Run("interpol notice is extracted", func(t *testing.T) {
		e := models.NewPersonEntry("QDi.001", "Test")
		applyOtherInfo("Other information: INTERPOL-UN Security Council Special Notice web link available", e)
		assert.Contains(t, e.Interpol, "INTERPOL-UN Security Council Special Notice")
	})

	t.Run("resolution reference is extracted", func(t *testing.T) {
		e := models.NewPersonEntry("QDi.001", "Test")
		applyOtherInfo("Other information: Review pursuant to resolution 1822 (2008) concluded", e)
		assert.Equal(t, "1822 (2008)", e.Resolution)
	})

	t.Run("missing label leaves entry untouched", func(t *testing.T) {
		e := models.NewPersonEntry("QDi.001", "Test")
		applyOtherInfo("Name: Someone", e)
		assert.Equal(t, "", e.OtherInfo)
	})
}
