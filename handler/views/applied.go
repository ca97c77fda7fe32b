package views

import (
	"moneymarket/core"
)

// Applied body of operations that return no event
type Applied struct {
	Action core.Action `json:"action"`
	Status string      `json:"status"`
}

func AppliedView(action core.Action) Applied {
	return Applied{
		Action: action,
		Status: "applied",
	}
}
