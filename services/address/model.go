package address

import "time"

type Address struct {
	UID         string
	ShopperUID  string
	Name        string
	PhoneNumber string
	Detail      string
	IsDefault   bool
	CreatedAt   time.Time
}
