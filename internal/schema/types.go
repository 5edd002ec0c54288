package schema

// Schema represents a complete database schema
type Schema struct {
	Tables        []Table
	Enums         []Enum
	Relationships []Relationship
}

// Table represents a database table
type Table struct {
	Name       string
	Columns    []Column
	Relations  []Relation
	Indexes    []Index
	PrimaryKey []string
}

// Kind is the dialect-independent type of a declared column
type Kind string

const (
	KindUUID      Kind = "uuid"
	KindText      Kind = "text"
	KindInteger   Kind = "integer"
	KindTime      Kind = "time"
	KindTimestamp Kind = "timestamp"
	KindEnum      Kind = "enum"
)

// DefaultRule describes how the database fills a column on insert
type DefaultRule string

const (
	DefaultNone       DefaultRule = ""
	DefaultRandomUUID DefaultRule = "random_uuid"
	DefaultNow        DefaultRule = "now"
)

// Column represents a table column.
//
// Declared columns carry Kind, Default and Enum; extracted columns carry the
// database's own Type and DefaultValue instead.
type Column struct {
	Name         string
	Kind         Kind
	Type         string
	Nullable     bool
	Default      DefaultRule
	DefaultValue *string
	OnUpdateNow  bool
	Immutable    bool
	Enum         string
	EnumValues   []string
	IsUnique     bool
}

// OnDelete is the referential action of a foreign key
type OnDelete string

const (
	NoAction OnDelete = "NO ACTION"
	Cascade  OnDelete = "CASCADE"
	Restrict OnDelete = "RESTRICT"
	SetNull  OnDelete = "SET NULL"
)

// Relation represents a foreign key relationship
type Relation struct {
	TargetTable  string
	TargetColumn string
	SourceColumn string
	Cardinality  string // 1:1, 1:N, N:1
	OnDelete     OnDelete
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// Enum is a named, closed set of string literals
type Enum struct {
	Name   string
	Values []string
}
