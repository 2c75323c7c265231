package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Template describes a downloadable import model: a header row naming the
// accepted columns and one example data row.
type Template struct {
	Filename string
	Headers  []string
	Example  []string
}

// StudentTemplate is the import model for the students spreadsheet.
var StudentTemplate = Template{
	Filename: "modelo_importacao_estudantes.csv",
	Headers:  []string{"name", "birth_date", "status", "class_name", "cpf", "diagnosis", "special_needs", "medical_info"},
	Example:  []string{"Exemplo Aluno", "2010-05-15", "ativo", "5º Ano", "", "TDAH", "Apoio pedagógico", ""},
}

// UserTemplate is the import model for the user accounts spreadsheet.
var UserTemplate = Template{
	Filename: "modelo_importacao_usuarios.csv",
	Headers:  []string{"name", "email", "password", "role", "cpf", "phone"},
	Example:  []string{"Exemplo Usuário", "usuario@example.com", "troque123", "cuidador", "", ""},
}

// RenderCSV produces the CSV bytes for a template.
func RenderCSV(t Template) ([]byte, error) {
	if len(t.Headers) == 0 {
		return nil, fmt.Errorf("csv template requires at least one header")
	}
	if len(t.Example) != len(t.Headers) {
		return nil, fmt.Errorf("csv template example must match headers: got %d, want %d", len(t.Example), len(t.Headers))
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.Write(t.Example); err != nil {
		return nil, fmt.Errorf("write csv example row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
