package chain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrEventNotFound is returned when a receipt carries no matching log.
var ErrEventNotFound = errors.New("campaign created event not found")

// EventDecoder extracts the new campaign id from a createCampaign receipt.
// It decodes against an operator-supplied event ABI; the event layout is
// never assumed.
type EventDecoder struct {
	contract common.Address
	event    abi.Event
	field    string
}

// NewEventDecoder parses eventJSON, either a single event object or an ABI
// array holding exactly one event, and checks that field is one of its
// integer inputs.
func NewEventDecoder(contract common.Address, eventJSON, field string) (*EventDecoder, error) {
	trimmed := strings.TrimSpace(eventJSON)
	if !strings.HasPrefix(trimmed, "[") {
		trimmed = "[" + trimmed + "]"
	}

	parsed, err := abi.JSON(strings.NewReader(trimmed))
	if err != nil {
		return nil, fmt.Errorf("parse event abi: %w", err)
	}
	if len(parsed.Events) != 1 {
		return nil, fmt.Errorf("event abi must describe exactly one event, got %d", len(parsed.Events))
	}

	var event abi.Event
	for _, e := range parsed.Events {
		event = e
	}

	found := false
	for _, in := range event.Inputs {
		if in.Name != field {
			continue
		}
		if in.Type.T != abi.UintTy && in.Type.T != abi.IntTy {
			return nil, fmt.Errorf("event field %q is %s, not an integer", field, in.Type.String())
		}
		found = true
	}
	if !found {
		return nil, fmt.Errorf("event %s has no field %q", event.Name, field)
	}

	return &EventDecoder{contract: contract, event: event, field: field}, nil
}

// CampaignID returns the campaign id emitted in receipt.
func (d *EventDecoder) CampaignID(receipt *types.Receipt) (*big.Int, error) {
	for _, log := range receipt.Logs {
		if log.Address != d.contract || len(log.Topics) == 0 || log.Topics[0] != d.event.ID {
			continue
		}

		values := make(map[string]any)
		if err := d.event.Inputs.NonIndexed().UnpackIntoMap(values, log.Data); err != nil {
			return nil, fmt.Errorf("unpack %s data: %w", d.event.Name, err)
		}

		var indexed abi.Arguments
		for _, in := range d.event.Inputs {
			if in.Indexed {
				indexed = append(indexed, in)
			}
		}
		if err := abi.ParseTopicsIntoMap(values, indexed, log.Topics[1:]); err != nil {
			return nil, fmt.Errorf("parse %s topics: %w", d.event.Name, err)
		}

		return toBig(values[d.field])
	}
	return nil, ErrEventNotFound
}

func toBig(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		return n, nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	default:
		return nil, fmt.Errorf("unexpected campaign id type %T", v)
	}
}
