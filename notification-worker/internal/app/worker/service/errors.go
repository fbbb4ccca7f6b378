package service

import "errors"

var (
	ErrNoRecipient   = errors.New("message has no recipient")
	ErrEmailRejected = errors.New("email api rejected the message")
	ErrPushRejected  = errors.New("push api rejected the message")
)
