package spell

import (
	"fmt"
	"strconv"
)

// Target is an implicit target type of an effect slot.
type Target uint16

// Implicit target types.
const (
	TargetNone                Target = 0
	TargetUnitCaster          Target = 1
	TargetUnitNearbyEnemy     Target = 2
	TargetUnitNearbyAlly      Target = 4
	TargetUnitPet             Target = 5
	TargetUnitTargetEnemy     Target = 6
	TargetUnitSrcAreaEntry    Target = 7
	TargetUnitDestAreaEntry   Target = 8
	TargetUnitSrcAreaEnemy    Target = 15
	TargetUnitDestAreaEnemy   Target = 16
	TargetDestDB              Target = 17
	TargetDestCaster          Target = 18
	TargetUnitCasterAreaParty Target = 20
	TargetUnitTargetAlly      Target = 21
	TargetSrcCaster           Target = 22
	TargetGameObjectTarget    Target = 23
	TargetUnitConeEnemy       Target = 24
	TargetUnitTargetAny       Target = 25
	TargetUnitSrcAreaAlly     Target = 30
	TargetUnitDestAreaAlly    Target = 31
	TargetDestTargetEnemy     Target = 53
	TargetDestChannelTarget   Target = 76
	TargetUnitChannelTarget   Target = 77
)

// SelectionCategory describes how the engine gathers objects for a target type.
type SelectionCategory uint8

// Selection categories.
const (
	SelectDefault SelectionCategory = iota
	SelectNearby
	SelectCone
	SelectArea
	SelectChannel
)

// ObjectKind describes what a target type resolves to.
type ObjectKind uint8

// Object kinds.
const (
	ObjectNone ObjectKind = iota
	ObjectSrc
	ObjectDest
	ObjectUnit
	ObjectGameObject
)

type targetInfo struct {
	name     string
	category SelectionCategory
	object   ObjectKind
}

var targetTable = map[Target]targetInfo{
	TargetNone:                {"None", SelectDefault, ObjectNone},
	TargetUnitCaster:          {"UnitCaster", SelectDefault, ObjectUnit},
	TargetUnitNearbyEnemy:     {"UnitNearbyEnemy", SelectNearby, ObjectUnit},
	TargetUnitNearbyAlly:      {"UnitNearbyAlly", SelectNearby, ObjectUnit},
	TargetUnitPet:             {"UnitPet", SelectDefault, ObjectUnit},
	TargetUnitTargetEnemy:     {"UnitTargetEnemy", SelectDefault, ObjectUnit},
	TargetUnitSrcAreaEntry:    {"UnitSrcAreaEntry", SelectArea, ObjectUnit},
	TargetUnitDestAreaEntry:   {"UnitDestAreaEntry", SelectArea, ObjectUnit},
	TargetUnitSrcAreaEnemy:    {"UnitSrcAreaEnemy", SelectArea, ObjectUnit},
	TargetUnitDestAreaEnemy:   {"UnitDestAreaEnemy", SelectArea, ObjectUnit},
	TargetDestDB:              {"DestDB", SelectDefault, ObjectDest},
	TargetDestCaster:          {"DestCaster", SelectDefault, ObjectDest},
	TargetUnitCasterAreaParty: {"UnitCasterAreaParty", SelectArea, ObjectUnit},
	TargetUnitTargetAlly:      {"UnitTargetAlly", SelectDefault, ObjectUnit},
	TargetSrcCaster:           {"SrcCaster", SelectDefault, ObjectSrc},
	TargetGameObjectTarget:    {"GameObjectTarget", SelectDefault, ObjectGameObject},
	TargetUnitConeEnemy:       {"UnitConeEnemy", SelectCone, ObjectUnit},
	TargetUnitTargetAny:       {"UnitTargetAny", SelectDefault, ObjectUnit},
	TargetUnitSrcAreaAlly:     {"UnitSrcAreaAlly", SelectArea, ObjectUnit},
	TargetUnitDestAreaAlly:    {"UnitDestAreaAlly", SelectArea, ObjectUnit},
	TargetDestTargetEnemy:     {"DestTargetEnemy", SelectDefault, ObjectDest},
	TargetDestChannelTarget:   {"DestChannelTarget", SelectChannel, ObjectDest},
	TargetUnitChannelTarget:   {"UnitChannelTarget", SelectChannel, ObjectUnit},
}

var targetNames = func() map[Target]string {
	m := make(map[Target]string, len(targetTable))
	for t, info := range targetTable {
		m[t] = info.name
	}
	return m
}()

// String returns the target name, or its number for unknown values.
func (t Target) String() string {
	if info, ok := targetTable[t]; ok {
		return info.name
	}
	return strconv.Itoa(int(t))
}

// Category returns the selection category. Unknown targets report SelectDefault.
func (t Target) Category() SelectionCategory {
	return targetTable[t].category
}

// Object returns what the target type resolves to. Unknown targets report ObjectNone.
func (t Target) Object() ObjectKind {
	return targetTable[t].object
}

// SelectsArea reports whether the engine gathers a list of objects for t.
func (t Target) SelectsArea() bool {
	if !t.selectsObjects() {
		return false
	}
	switch t.Category() {
	case SelectArea, SelectCone, SelectNearby:
		return true
	}
	return false
}

// SelectsObject reports whether the engine picks a single object for t.
func (t Target) SelectsObject() bool {
	if !t.selectsObjects() {
		return false
	}
	switch t.Category() {
	case SelectDefault, SelectNearby, SelectChannel:
		return true
	}
	return false
}

// SelectsDest reports whether t resolves to a destination.
func (t Target) SelectsDest() bool {
	return t.Object() == ObjectDest
}

func (t Target) selectsObjects() bool {
	o := t.Object()
	return o == ObjectUnit || o == ObjectGameObject
}

// ParseTarget parses a target name (case-insensitive) or number.
func ParseTarget(s string) (Target, error) {
	v, err := parseEnum(s, targetNames)
	if err != nil {
		return TargetNone, fmt.Errorf("target: %w", err)
	}
	return v, nil
}
