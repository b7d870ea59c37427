package observer

import (
	"github.com/GianlucaGuarini/go-observable"
)

// ResourceObserver fires after a ledger transaction commits. Event names are
// built with `Event.String()`.
var ResourceObserver = observable.New()

const (
	ResourcePoll        = "poll"
	ResourceHolding     = "holding"
	ResourceMint        = "mint"
	ResourceTransaction = "tx"

	ConditionAll     = "*"
	ConditionAddress = "address"
	ConditionOwner   = "owner"
	ConditionTxHash  = "txhash"
)

type Event struct {
	Resource  string `json:"resource"`
	Condition string `json:"condition"`
	Id        string `json:"id"`
}

func NewEvent(resource, condition, id string) Event {
	return Event{
		Resource:  resource,
		Condition: condition,
		Id:        id,
	}
}

func (e Event) String() string {
	toStr := e.Resource + "-"
	if e.Condition == ConditionAll {
		toStr += e.Condition
	} else {
		toStr += e.Condition + "="
		toStr += e.Id
	}
	return toStr
}

// Events joins the names of the given events the way `observable` expects
// them for multiple subscriptions.
func Events(events ...Event) string {
	toStr := ""
	for i, e := range events {
		if i > 0 {
			toStr += " "
		}
		toStr += e.String()
	}
	return toStr
}
