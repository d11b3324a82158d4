package backend

// Wire types for the upstream turret service. JSON field names match the
// upstream schema exactly, including its inherited quirks; the console has
// no say in that contract.

// Turret is one inventory record from /turrets.
type Turret struct {
	ID             string `json:"id"`
	TurretID       string `json:"turretId"`
	TurretName     string `json:"turretName"`
	IP             string `json:"ip"`
	Port           string `json:"port"`
	NotificationIP string `json:"notificationIp"`
	SubscribePort  string `json:"subscribePort"`
	ProfileName    string `json:"profileName"`
	NoOfChannel    string `json:"noOfChannel"`
	IsActive       bool   `json:"isActive"`
	IsDeleted      bool   `json:"isDeleted,omitempty"`
}

// Device is one IP phone record from /ipPhones.
type Device struct {
	ID               string `json:"id"`
	DeviceIdentifier string `json:"deviceIdentifier"`
	DisplayNumber    string `json:"displayNumber"`
	PhoneName        string `json:"phoneName"`
	IsActive         bool   `json:"isActive,omitempty"`
	CreateDate       string `json:"createDate,omitempty"`
}

// CallAuditRow is one row of the call audit report.
type CallAuditRow struct {
	CallID          string `json:"callId"`
	CreatedOn       string `json:"createdOn"`
	TurretName      string `json:"turretName"`
	LineName        string `json:"lineName"`
	PartyNumber     string `json:"partyNumber"`
	State           string `json:"state"`
	IsFileAvailable string `json:"isFileAvailable"`
}

// IPPhoneAuditRow is one row of the IP phone audit report.
type IPPhoneAuditRow struct {
	ID                     string `json:"id"`
	CallDisconnectDateTime string `json:"callDisconnectDateTime"`
	DeviceIdentifier       string `json:"deviceIdentifier"`
	CallID                 string `json:"callId"`
	PartyNumber            string `json:"partyNumber"`
	State                  string `json:"state"`
	CreatedOn              string `json:"createdOn"`
}

// IPPhoneDisconnectRow is one row of the IP phone disconnect report.
type IPPhoneDisconnectRow struct {
	ID               string `json:"id"`
	CreatedOn        string `json:"createdOn"`
	DeviceIdentifier string `json:"deviceIdentifier"`
	CallID           string `json:"callId"`
	PartyNumber      string `json:"partyNumber"`
	// Reson carries the upstream's misspelled field name.
	Reson string `json:"reson"`
}

// TurretDisconnectRow is one row of the turret disconnect report.
type TurretDisconnectRow struct {
	CallID      string `json:"callId"`
	CreatedOn   string `json:"createdOn"`
	TurretName  string `json:"turretName"`
	LineNo      string `json:"lineNo"`
	PartyNumber string `json:"partyNumber"`
}
