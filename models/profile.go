package models

import "time"

// Profile holds the extended member attributes, 1:1 with a user. The two
// oikos fields name people the member is praying to bring to faith.
type Profile struct {
	Profile_ID      int       `json:"profileId" goqu:"skipinsert"`
	User_ID         int       `json:"userId"`
	Whatsapp        *string   `json:"whatsapp"`
	Gender          *string   `json:"gender"`
	Birth_Date      *string   `json:"birthDate"`
	Birth_City      *string   `json:"birthCity"`
	Birth_State     *string   `json:"birthState"`
	Address         *string   `json:"address"`
	Address_Number  *string   `json:"addressNumber"`
	District        *string   `json:"district"`
	City            *string   `json:"city"`
	State           *string   `json:"state"`
	Zip_Code        *string   `json:"zipCode"`
	Father_Name     *string   `json:"fatherName"`
	Mother_Name     *string   `json:"motherName"`
	Marital_Status  *string   `json:"maritalStatus"`
	Spouse_Name     *string   `json:"spouseName"`
	Education       *string   `json:"education"`
	Profession      *string   `json:"profession"`
	Conversion_Date *string   `json:"conversionDate"`
	Previous_Church *string   `json:"previousChurch"`
	Oikos1          *string   `json:"oikos1"`
	Oikos2          *string   `json:"oikos2"`
	Datetime_Create time.Time `json:"datetimeCreate" goqu:"skipinsert"`
	Datetime_Update time.Time `json:"datetimeUpdate" goqu:"skipinsert"`
}

type ProfileUpdate struct {
	Whatsapp        *string `json:"whatsapp"`
	Gender          *string `json:"gender" binding:"omitempty,oneof=M F"`
	Birth_Date      *string `json:"birthDate"`
	Birth_City      *string `json:"birthCity"`
	Birth_State     *string `json:"birthState"`
	Address         *string `json:"address"`
	Address_Number  *string `json:"addressNumber"`
	District        *string `json:"district"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	Zip_Code        *string `json:"zipCode"`
	Father_Name     *string `json:"fatherName"`
	Mother_Name     *string `json:"motherName"`
	Marital_Status  *string `json:"maritalStatus"`
	Spouse_Name     *string `json:"spouseName"`
	Education       *string `json:"education"`
	Profession      *string `json:"profession"`
	Conversion_Date *string `json:"conversionDate"`
	Previous_Church *string `json:"previousChurch"`
	Oikos1          *string `json:"oikos1"`
	Oikos2          *string `json:"oikos2"`
}
