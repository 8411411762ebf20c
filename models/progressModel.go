package models

import "time"

// Progress is one row of the progreso table.
type Progress struct {
	IDProgreso            int64     `json:"id_progreso"`
	IDUsuario             int64     `json:"id_usuario"`
	FechaRegistro         time.Time `json:"fecha_registro"`
	Peso                  float64   `json:"peso"`
	CircunferenciaCintura *float64  `json:"circunferencia_cintura"`
	ComentariosUsuario    *string   `json:"comentarios_usuario"`
}

type ProgressCreate struct {
	IDUsuario             *int64   `json:"id_usuario" validate:"required,gt=0"`
	Peso                  *float64 `json:"peso" validate:"required,gt=0"`
	CircunferenciaCintura *float64 `json:"circunferencia_cintura" validate:"omitempty,gte=0"`
	ComentariosUsuario    *string  `json:"comentarios_usuario"`
}

// ProgressUpdate replaces the measurement fields of an existing entry.
type ProgressUpdate struct {
	Peso                  *float64 `json:"peso" validate:"required,gt=0"`
	CircunferenciaCintura *float64 `json:"circunferencia_cintura" validate:"omitempty,gte=0"`
	ComentariosUsuario    *string  `json:"comentarios_usuario"`
}
