package lob

import "errors"

var (
	ErrDuplicateOrderID = errors.New("an order with this id is already resting")
	ErrBookFull         = errors.New("the side already holds the maximum number of price levels")
	ErrLevelFull        = errors.New("the price level already holds the maximum number of orders")
	ErrOrderNotFound    = errors.New("no resting order with this id")
	ErrArenaExhausted   = errors.New("the order arena reached its capacity ceiling")
	ErrInvalidParam     = errors.New("the param is invalid")
)
