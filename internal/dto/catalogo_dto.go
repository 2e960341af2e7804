package dto

import "github.com/shopspring/decimal"

// ─── Categorías y unidades ───────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre          string  `json:"nombre" validate:"required"`
	Descripcion     *string `json:"descripcion"`
	RequiereMedidas bool    `json:"requiere_medidas"`
}

type ActualizarCategoriaRequest struct {
	Nombre          string  `json:"nombre"`
	Descripcion     *string `json:"descripcion"`
	RequiereMedidas *bool   `json:"requiere_medidas"`
}

type CategoriaResponse struct {
	ID              string            `json:"id"`
	Nombre          string            `json:"nombre"`
	Descripcion     *string           `json:"descripcion,omitempty"`
	RequiereMedidas bool              `json:"requiere_medidas"`
	Activo          bool              `json:"activo"`
	Unidades        []UnidadResponse  `json:"unidades,omitempty"`
}

type CrearUnidadRequest struct {
	CategoriaID      string          `json:"categoria_id" validate:"required,uuid"`
	Nombre           string          `json:"nombre"       validate:"required"`
	Abreviatura      string          `json:"abreviatura"  validate:"required,max=10"`
	FactorConversion decimal.Decimal `json:"factor_conversion" validate:"gt=0"`
}

type UnidadResponse struct {
	ID               string          `json:"id"`
	CategoriaID      string          `json:"categoria_id"`
	Nombre           string          `json:"nombre"`
	Abreviatura      string          `json:"abreviatura"`
	FactorConversion decimal.Decimal `json:"factor_conversion"`
	Activo           bool            `json:"activo"`
}

// ─── Sucursales ──────────────────────────────────────────────────────────────

type CrearSucursalRequest struct {
	Nombre    string           `json:"nombre"    validate:"required"`
	Direccion string           `json:"direccion" validate:"required"`
	Telefono  *string          `json:"telefono"`
	Latitud   *decimal.Decimal `json:"latitud"`
	Longitud  *decimal.Decimal `json:"longitud"`
}

type SucursalResponse struct {
	ID        string           `json:"id"`
	Nombre    string           `json:"nombre"`
	Direccion string           `json:"direccion"`
	Telefono  *string          `json:"telefono,omitempty"`
	Latitud   *decimal.Decimal `json:"latitud,omitempty"`
	Longitud  *decimal.Decimal `json:"longitud,omitempty"`
	Activo    bool             `json:"activo"`
}

// ─── Clientes y proveedores ──────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre    string  `json:"nombre" validate:"required"`
	NIT       string  `json:"nit"    validate:"required"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

type ClienteResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	NIT       string  `json:"nit"`
	Telefono  *string `json:"telefono,omitempty"`
	Email     *string `json:"email,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
	Activo    bool    `json:"activo"`
}

type CrearProveedorRequest struct {
	RazonSocial string  `json:"razon_social" validate:"required"`
	NIT         string  `json:"nit"          validate:"required"`
	Telefono    *string `json:"telefono"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Direccion   *string `json:"direccion"`
}

type ProveedorResponse struct {
	ID          string  `json:"id"`
	RazonSocial string  `json:"razon_social"`
	NIT         string  `json:"nit"`
	Telefono    *string `json:"telefono,omitempty"`
	Email       *string `json:"email,omitempty"`
	Direccion   *string `json:"direccion,omitempty"`
	Activo      bool    `json:"activo"`
}

// ─── Métodos de pago ─────────────────────────────────────────────────────────

type CrearMetodoPagoRequest struct {
	Nombre             string `json:"nombre" validate:"required"`
	RequiereReferencia bool   `json:"requiere_referencia"`
}

type MetodoPagoResponse struct {
	ID                 string `json:"id"`
	Nombre             string `json:"nombre"`
	RequiereReferencia bool   `json:"requiere_referencia"`
	Activo             bool   `json:"activo"`
}
