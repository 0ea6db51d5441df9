package models

// Class records the department scope owned by a single HOD together with the
// two join codes it issues. Uniqueness of codes and of the (college,
// department) pair is enforced by the database rather than by
// check-then-insert, so concurrent registrations cannot mint duplicates.
type Class struct {
	BaseModel

	College    string `gorm:"not null;uniqueIndex:idx_classes_scope" json:"college"`
	Department string `gorm:"not null;uniqueIndex:idx_classes_scope" json:"department"`

	StudentCode   string `gorm:"uniqueIndex;not null" json:"studentCode"`
	ProfessorCode string `gorm:"uniqueIndex;not null" json:"professorCode"`

	HodID string `gorm:"type:uuid;not null" json:"hodId"`
	Hod   *User  `gorm:"foreignKey:HodID" json:"-"`
}
