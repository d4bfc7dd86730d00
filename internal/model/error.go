package model

import "errors"

var ErrorEmptyGroupName = errors.New("group name must not be empty")
var ErrorEmptyMessageGroup = errors.New("message group must not be empty")
