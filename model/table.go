package model

import "fmt"

// NoLanguagePlaceholder replaces a missing primary language in tables
const NoLanguagePlaceholder = "Sem linguagem definida"

// Table is the two columns view of an owner repositories, in the order github returned them
// Names[i] and Languages[i] always describe the same repository
type Table struct {
	Names     []string
	Languages []string
}

type TableRow struct {
	Name     string `json:"repos_names"`
	Language string `json:"repos_languages"`
}

// NewTable builds a table from both columns, they must have the same length
func NewTable(names []string, languages []string) (Table, error) {
	if len(names) != len(languages) {
		return Table{}, fmt.Errorf("%w: %d names for %d languages", ErrTableShapeMismatch, len(names), len(languages))
	}

	return Table{Names: names, Languages: languages}, nil
}

func (t Table) Len() int {
	return len(t.Names)
}

// Rows returns the table as name/language pairs
func (t Table) Rows() []TableRow {
	rows := make([]TableRow, 0, t.Len())

	for i := range t.Names {
		rows = append(rows, TableRow{Name: t.Names[i], Language: t.Languages[i]})
	}

	return rows
}

// ExtractNames flattens all pages into the list of repository names
func ExtractNames(pages []Page) []string {
	names := make([]string, 0)

	for _, page := range pages {
		for _, r := range page {
			names = append(names, r.Name)
		}
	}

	return names
}

// ExtractLanguages flattens all pages into the list of primary languages
// a missing language is replaced by NoLanguagePlaceholder so both lists keep the same length
func ExtractLanguages(pages []Page) []string {
	languages := make([]string, 0)

	for _, page := range pages {
		for _, r := range page {
			if r.Language == nil {
				languages = append(languages, NoLanguagePlaceholder)
				continue
			}

			languages = append(languages, *r.Language)
		}
	}

	return languages
}

// AssembleTable combines both extractors, no sort, filter or deduplication applied
func AssembleTable(pages []Page) (Table, error) {
	return NewTable(ExtractNames(pages), ExtractLanguages(pages))
}
