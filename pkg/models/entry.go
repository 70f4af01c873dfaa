package models

// EntryType discriminates the two record variants on a consolidated list
type EntryType string

const (
	EntryTypePerson EntryType = "person"
	EntryTypeEntity EntryType = "entity"
)

// Entry is one normalized sanctions-list record. Shared fields live on the
// struct itself; exactly one of Person/Entity is non-nil, matching Type.
type Entry struct {
	ID             string    `json:"id"`
	Type           EntryType `json:"type"`
	Name           string    `json:"name"`
	OriginalScript string    `json:"original_script,omitempty"`

	// Address is always a slice, possibly empty, never nil. Search and
	// match code iterates it without a nil check.
	Address []string `json:"address"`

	ListedOn            string   `json:"listed_on,omitempty"`
	LastUpdated         string   `json:"last_updated,omitempty"`
	OtherInfo           string   `json:"other_info,omitempty"`
	AssociatedWith      []string `json:"associated_with,omitempty"`
	Status              string   `json:"status,omitempty"`
	PhysicalDescription string   `json:"physical_description,omitempty"`
	Languages           string   `json:"languages,omitempty"`
	Interpol            string   `json:"interpol,omitempty"`
	Resolution          string   `json:"resolution,omitempty"`

	Person *PersonDetails `json:"person,omitempty"`
	Entity *EntityDetails `json:"entity,omitempty"`
}

// PersonDetails holds the fields only individuals carry
type PersonDetails struct {
	Title           string   `json:"title,omitempty"`
	Designation     string   `json:"designation,omitempty"`
	DateOfBirth     string   `json:"date_of_birth,omitempty"`
	PlaceOfBirth    string   `json:"place_of_birth,omitempty"`
	ReliableAlias   []string `json:"reliable_alias,omitempty"`
	UnreliableAlias []string `json:"unreliable_alias,omitempty"`
	Nationality     string   `json:"nationality,omitempty"`
	PassportNo      string   `json:"passport_no,omitempty"`
	NationalID      string   `json:"national_id,omitempty"`
}

// EntityDetails holds the fields only organizations carry
type EntityDetails struct {
	OtherNames        []string `json:"other_names,omitempty"`
	PreviouslyKnownAs []string `json:"previously_known_as,omitempty"`
}

// NewPersonEntry returns a person entry with the address invariant satisfied
func NewPersonEntry(id, name string) *Entry {
	return &Entry{
		ID:      id,
		Type:    EntryTypePerson,
		Name:    name,
		Address: []string{},
		Person:  &PersonDetails{},
	}
}

// NewEntityEntry returns an entity entry with the address invariant satisfied
func NewEntityEntry(id, name string) *Entry {
	return &Entry{
		ID:      id,
		Type:    EntryTypeEntity,
		Name:    name,
		Address: []string{},
		Entity:  &EntityDetails{},
	}
}

// Aliases returns the type-appropriate alternative names for the entry:
// reliable + unreliable aliases for persons, other-names + previously-known-as
// for entities.
func (e *Entry) Aliases() []string {
	switch e.Type {
	case EntryTypePerson:
		if e.Person == nil {
			return nil
		}
		aliases := make([]string, 0, len(e.Person.ReliableAlias)+len(e.Person.UnreliableAlias))
		aliases = append(aliases, e.Person.ReliableAlias...)
		aliases = append(aliases, e.Person.UnreliableAlias...)
		return aliases
	case EntryTypeEntity:
		if e.Entity == nil {
			return nil
		}
		aliases := make([]string, 0, len(e.Entity.OtherNames)+len(e.Entity.PreviouslyKnownAs))
		aliases = append(aliases, e.Entity.OtherNames...)
		aliases = append(aliases, e.Entity.PreviouslyKnownAs...)
		return aliases
	}
	return nil
}

// Nationality returns the person nationality or "" for entities
func (e *Entry) Nationality() string {
	if e.Person != nil {
		return e.Person.Nationality
	}
	return ""
}
