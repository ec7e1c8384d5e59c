package material

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kmande/chuo/core"
	"github.com/kmande/chuo/core/user"
)

type Material struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Subject     string       `json:"subject"`
	Department  string       `json:"department"`
	Type        string       `json:"type"` // notes, slides, paper, lab, other
	FileURL     string       `json:"file_url"`
	FileSize    int64        `json:"file_size"`
	Downloads   int          `json:"downloads"`
	UploadedBy  user.Profile `json:"uploaded_by"`
	UploadDate  time.Time    `json:"upload_date"` // UTC
}

// NewMaterial contains information needed to upload a study material.
// There is no file-storage subsystem; FileURL points at wherever the file
// actually lives.
type NewMaterial struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject" validate:"required"`
	Department  string `json:"department" validate:"required"`
	Type        string `json:"type" validate:"required"`
	FileURL     string `json:"file_url" validate:"required,url"`
	FileSize    int64  `json:"file_size" validate:"omitempty,gte=0"`
}

func (nm *NewMaterial) Validate(validate *validator.Validate) error {
	nm.Title = core.CleanString(nm.Title)
	nm.Description = core.CleanString(nm.Description)
	nm.Subject = core.CleanString(nm.Subject)
	nm.Department = core.CleanString(nm.Department)
	return validate.Struct(nm)
}

type QueryFilter struct {
	Department string `query:"department"`
	Search     string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Department == "" && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Department = core.CleanString(qf.Department)
	qf.Search = core.CleanString(qf.Search)
}
