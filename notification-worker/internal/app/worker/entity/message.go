package entity

// Email is a rendered message ready for the email API.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// PushMessage is a device notification addressed by FCM registration token.
type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}
