package cpo

import "errors"

var errLength = errors.New("cpo: payload length does not match record type")
