package entity

type ContactInfo struct {
	Address     string `db:"address"`
	PhoneNumber string `db:"phone_number"`
	Email       string `db:"email"`
	Location    string `db:"location"`
}

type Hotel struct {
	Base
	Name      string   `db:"name"`
	City      string   `db:"city"`
	Photos    []string `db:"photos"`
	Amenities []string `db:"amenities"`
	Contact   ContactInfo
	IsActive  bool `db:"is_active"`
}
