package models

import (
	"errors"
	"fmt"
	"strings"
)

// Group identifies one reservation-count column of the booking table.
type Group int

const (
	GroupRMA Group = iota
	GroupRMB
	GroupRMC
	GroupRMD
	GroupRME
	GroupRMF
	GroupRMG
	GroupRMH
	GroupRMI
	GroupRMJ
	GroupRMK
	GroupRML
	GroupRMQ
	GroupRMT
	GroupRMZ
	GroupOthers
	// GroupTotal is synthetic: it reads total_reservations instead of a group column.
	GroupTotal
)

// NumNamedGroups is the number of groups backed by a <label>_reservation column.
const NumNamedGroups = int(GroupTotal)

var groupLabels = [...]string{
	GroupRMA:    "RMA",
	GroupRMB:    "RMB",
	GroupRMC:    "RMC",
	GroupRMD:    "RMD",
	GroupRME:    "RME",
	GroupRMF:    "RMF",
	GroupRMG:    "RMG",
	GroupRMH:    "RMH",
	GroupRMI:    "RMI",
	GroupRMJ:    "RMJ",
	GroupRMK:    "RMK",
	GroupRML:    "RML",
	GroupRMQ:    "RMQ",
	GroupRMT:    "RMT",
	GroupRMZ:    "RMZ",
	GroupOthers: "others",
	GroupTotal:  "total",
}

// Column names shared by every input source.
const (
	ColumnStayDate          = "stay_date"
	ColumnReportDate        = "report_date"
	ColumnTotalReservations = "total_reservations"
)

var ErrUnknownGroup = errors.New("unknown group")

// NamedGroups returns the 16 column-backed groups in display order.
func NamedGroups() []Group {
	groups := make([]Group, NumNamedGroups)
	for i := range groups {
		groups[i] = Group(i)
	}
	return groups
}

// AllGroups returns the named groups followed by GroupTotal.
func AllGroups() []Group {
	return append(NamedGroups(), GroupTotal)
}

func (g Group) Valid() bool {
	return g >= GroupRMA && g <= GroupTotal
}

func (g Group) IsNamed() bool {
	return g >= GroupRMA && g < GroupTotal
}

func (g Group) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Group(%d)", int(g))
	}
	return groupLabels[g]
}

// Column returns the table column holding this group's reservation counts.
func (g Group) Column() string {
	if g == GroupTotal {
		return ColumnTotalReservations
	}
	return g.String() + "_reservation"
}

// ParseGroup resolves a label such as "RMA", "others" or "total".
// Matching is case-insensitive.
func ParseGroup(label string) (Group, error) {
	label = strings.TrimSpace(label)
	for i, l := range groupLabels {
		if strings.EqualFold(l, label) {
			return Group(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, label)
}

func (g Group) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGroup, int(g))
	}
	return []byte(g.String()), nil
}

func (g *Group) UnmarshalText(text []byte) error {
	parsed, err := ParseGroup(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// RequiredColumns lists every column an input table must provide.
func RequiredColumns() []string {
	cols := []string{ColumnReportDate, ColumnStayDate, ColumnTotalReservations}
	for _, g := range NamedGroups() {
		cols = append(cols, g.Column())
	}
	return cols
}
