package core

import "time"

// Account es el registro de identidad del portal de reclutamiento.
// El id numérico se asigna una sola vez en la creación y nunca se reasigna.
type Account struct {
	ID             int64      `json:"id" bson:"id"`
	Email          string     `json:"email" bson:"email"`
	FullName       string     `json:"fullName" bson:"fullName"`
	PasswordHash   string     `json:"-" bson:"passwordHash"`
	PasswordSalt   string     `json:"-" bson:"passwordSalt"`
	OTPSecret      string     `json:"-" bson:"otpSecret"`
	OTPExpiry      *time.Time `json:"-" bson:"otpExpiry,omitempty"`
	Verified       bool       `json:"verified" bson:"verified"`
	ProfileCreated bool       `json:"profileCreated" bson:"profileCreated"`
	ResetToken     *string    `json:"-" bson:"resetToken,omitempty"`
	ResetExpiry    *time.Time `json:"-" bson:"resetExpiry,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// AccountUpdate describe una actualización parcial: sólo los campos no-nil
// se escriben. ClearOTPExpiry/ClearResetToken ponen el campo en NULL
// explícitamente (un *T nil significa "no tocar", no "borrar").
type AccountUpdate struct {
	FullName       *string
	PasswordHash   *string
	PasswordSalt   *string
	OTPSecret      *string
	OTPExpiry      *time.Time
	Verified       *bool
	ProfileCreated *bool
	ResetToken     *string
	ResetExpiry    *time.Time

	ClearOTPExpiry  bool
	ClearResetToken bool
}

// Profile es la extensión 1:1 de Account con biodata del postulante,
// identificada por email. Su ausencia es un estado normal hasta que el
// postulante la crea.
type Profile struct {
	Email         string    `json:"email" bson:"_id"`
	FirstName     string    `json:"firstName" bson:"firstName"`
	MiddleName    string    `json:"middleName,omitempty" bson:"middleName,omitempty"`
	LastName      string    `json:"lastName" bson:"lastName"`
	Phone         string    `json:"phone" bson:"phone"`
	BirthDate     string    `json:"birthDate" bson:"birthDate"`
	BirthPlace    string    `json:"birthPlace" bson:"birthPlace"`
	NationalID    string    `json:"nationalId" bson:"nationalId"`
	TaxID         string    `json:"taxId,omitempty" bson:"taxId,omitempty"`
	MaritalStatus string    `json:"maritalStatus" bson:"maritalStatus"`
	Address       string    `json:"address" bson:"address"`
	City          string    `json:"city" bson:"city"`
	Country       string    `json:"country" bson:"country"`
	RelativeInOrg bool      `json:"relativeInOrg" bson:"relativeInOrg"`
	LastModified  time.Time `json:"lastModified" bson:"lastModified"`
}

// IntegrationConfig guarda credenciales del sistema HR externo, indexadas
// por un conjunto chico de ids conocidos ("default", "staging", ...).
// Read-only desde este core.
type IntegrationConfig struct {
	ID           string `json:"id" bson:"_id"`
	CompanyID    string `json:"companyId" bson:"companyId"`
	BaseURL      string `json:"baseUrl" bson:"baseUrl"`
	TokenURL     string `json:"tokenUrl" bson:"tokenUrl"`
	ClientID     string `json:"clientId" bson:"clientId"`
	ClientSecret string `json:"-" bson:"clientSecret"`
	Scope        string `json:"scope,omitempty" bson:"scope,omitempty"`
}

// AppSetup es el registro único de configuración de la instalación.
type AppSetup struct {
	SetupID     string    `json:"setupId" bson:"_id"`
	CompanyName string    `json:"companyName" bson:"companyName"`
	ConfigID    string    `json:"configId" bson:"configId"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
