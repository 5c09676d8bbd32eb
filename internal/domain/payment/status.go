package payment

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
)
