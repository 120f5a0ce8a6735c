// Package patent defines the canonical patent model produced by the ingestion
// normalizer and persisted by the upsert writer. Raw source records are
// loosely typed maps; everything downstream of the normalizer works with the
// types in this package only.
package patent

// Scheme identifies a classification scheme.
type Scheme string

const (
	SchemeIPC Scheme = "ipc"
	SchemeCPC Scheme = "cpc"
)

// EntityID is the identity of an assignee or inventor. The source either
// supplies a native id or the pipeline derives one by hashing the normalized
// name; the two cases are kept distinct so the precedence stays explicit and
// testable.
type EntityID struct {
	Value   string
	Derived bool
}

// NativeID tags an identifier supplied by the source system.
func NativeID(value string) EntityID {
	return EntityID{Value: value}
}

// DerivedID tags an identifier computed locally from the entity's name.
func DerivedID(value string) EntityID {
	return EntityID{Value: value, Derived: true}
}

// Assignee is an organization (or person) a patent is assigned to.
// Name is always non-empty; location fields may be empty.
type Assignee struct {
	ID      EntityID
	Name    string
	Country string
	State   string
	City    string
}

// Inventor is a named inventor on a patent. At least one of FirstName and
// LastName is non-empty; records resolving to neither are dropped by the
// normalizer rather than stored.
type Inventor struct {
	ID        EntityID
	FirstName string
	LastName  string
	Country   string
	State     string
	City      string
}

// DisplayName renders the inventor's name for search results.
func (i Inventor) DisplayName() string {
	switch {
	case i.FirstName != "" && i.LastName != "":
		return i.FirstName + " " + i.LastName
	case i.FirstName != "":
		return i.FirstName
	default:
		return i.LastName
	}
}

// Classification is one (code, scheme) pair carried by a patent. Description
// is populated for CPC entries when the source provides a title; IPC entries
// never carry one in this pipeline.
type Classification struct {
	Code        string
	Scheme      Scheme
	Description string
}

// Citation is a directed reference from a patent to a cited document.
// CitedPatentID may be empty when the source could not resolve the target;
// such rows are still persisted as valid-but-minimal facts.
type Citation struct {
	CitedPatentID string
	Type          string
}

// NormalizedPatent is the canonical shape one raw source record normalizes
// into. ID is the publication number and the only mandatory field; every other
// field uses the empty string / empty slice as "absent" and the persistence
// layer stores absent scalars as SQL NULL.
type NormalizedPatent struct {
	ID       string
	Title    string
	Abstract string
	Claims   string

	IPCCodes []string
	CPCCodes []string

	PublicationDate string // YYYY-MM-DD or empty
	PriorityDate    string
	FilingDate      string

	Assignees       []Assignee
	Inventors       []Inventor
	Classifications []Classification
	Citations       []Citation
}
