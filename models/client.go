package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client tiers derived from interaction counts
const (
	TierNew       = "new"
	TierRecurring = "recurring"
	TierVIP       = "VIP"
)

// Controlled vocabularies. These string values are part of the API contract,
// so they stay in the language the clients submit them in.
var (
	ValidGenders = []string{"Hombre", "Mujer", "N/A"}

	ValidLanguages = []string{"Español"}

	ValidAgeRanges = []string{
		"Menos de 18 años",
		"19-25 años",
		"26-34 años",
		"35-44 años",
		"45-54 años",
		"55-64 años",
		"65 años o más",
	}

	ValidSkinTypes = []string{"Seca", "Normal", "Grasa", "Mixta", "Sensible"}

	ValidSkinConcerns = []string{
		"Piel sensible",
		"Envejecimiento",
		"Imperfecciones",
		"Brillo en la piel",
		"Maquillaje",
		"Proteger piel vs factores externos",
		"Piel seca rostro",
		"Piel seca cuerpo",
	}

	ValidBrands = []string{
		"LA ROCHE POSAY",
		"AVENE",
		"BIODERMA",
		"VICHY",
		"EUCERIN",
		"CETAPHIL",
		"CERAVE",
		"ISDIN",
		"OTRO",
	}

	ValidInterests = []string{
		"Lanzamientos",
		"Packs promocionales",
		"Promociones/descuentos",
		"Muestras gratis",
		"Otros",
	}

	ValidEventTypes = []string{
		"Exp. con expertos",
		"Eventos de cuidado de la piel",
		"Maquillaje",
		"Faciales",
	}
)

type Client struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	FirstName   string     `gorm:"not null;index:idx_clients_name,priority:1" json:"firstName"`
	LastName    string     `gorm:"index:idx_clients_name,priority:2" json:"lastName"`
	Gender      string     `json:"gender"`
	Language    string     `gorm:"not null" json:"language"`
	Birthday    *time.Time `gorm:"index" json:"birthday"`
	PhoneNumber string     `gorm:"not null;index" json:"phoneNumber"`
	AgeRange    string     `json:"ageRange"`
	Email       *string    `gorm:"uniqueIndex" json:"email"`

	TermsAccepted bool       `gorm:"not null" json:"termsAccepted"`
	ConsentGiven  bool       `gorm:"default:false;index" json:"consentGiven"`
	ConsentDate   *time.Time `json:"consentDate"`

	SkinType      string      `gorm:"index" json:"skinType"`
	SkinConcerns  StringArray `gorm:"type:text" json:"skinConcerns"`
	CurrentBrands StringArray `gorm:"type:text" json:"currentBrands"`
	Interests     StringArray `gorm:"type:text" json:"interests"`
	EventTypes    StringArray `gorm:"type:text" json:"eventTypes"`
	Preferences   StringArray `gorm:"type:text" json:"preferences"`

	Tier string `gorm:"type:varchar(20);default:'new'" json:"tier"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (cl *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}
	if cl.Tier == "" {
		cl.Tier = TierNew
	}
	return
}

// StringArray stores a list of strings as a JSON text column so the same
// model works on both postgres and the sqlite test database.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		a = StringArray{}
	}
	b, err := json.Marshal(a)
	return string(b), err
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("unsupported type for StringArray")
	}
}
