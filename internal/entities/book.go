package entities

// Book is a single catalog record. ISBN is the business key; ID is a
// surrogate assigned by the store and carries no meaning for the catalog.
type Book struct {
	ID      uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title   string  `gorm:"type:text;not null" json:"title"`
	Author  string  `gorm:"type:text;not null" json:"author"`
	ISBN    string  `gorm:"column:isbn;type:text;not null;uniqueIndex" json:"isbn"`
	PDFPath *string `gorm:"column:pdf_path;type:text" json:"pdf_path,omitempty"`
}

func (Book) TableName() string {
	return "books"
}

// HasPDF reports whether an attachment path is set.
func (b Book) HasPDF() bool {
	return b.PDFPath != nil && *b.PDFPath != ""
}

// Snapshot returns a detached copy of the record, safe to keep after the
// original is mutated.
func (b Book) Snapshot() Book {
	c := b
	if b.PDFPath != nil {
		p := *b.PDFPath
		c.PDFPath = &p
	}
	return c
}
