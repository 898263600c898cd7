package ecs

import (
	"iter"
	"reflect"

	"github.com/rotisserie/eris"
)

// GroupKind distinguishes systems from views.
type GroupKind uint8

const (
	GroupSystem GroupKind = iota
	GroupView
)

func (k GroupKind) String() string {
	if k == GroupView {
		return "view"
	}
	return "system"
}

// group is the incrementally maintained set of live entities whose signature
// contains required. Systems and views both sit on top of one.
type group struct {
	key      reflect.Type
	name     string
	kind     GroupKind
	required Signature
	members  *SparseSet[Entity]
}

func (g *group) onEntitySignatureChanged(e Entity, sig Signature) {
	if sig.Contains(g.required) {
		g.members.Insert(e)
	} else {
		g.members.Erase(e)
	}
}

func (g *group) onEntityDestroyed(e Entity) {
	g.members.Erase(e)
}

// setRequired replaces the requirement without touching membership.
func (g *group) setRequired(sig Signature) {
	g.required = sig
}

func (g *group) contains(e Entity) bool {
	return g.members.Contains(e)
}

func (g *group) len() int {
	return g.members.Size()
}

func (g *group) entities() iter.Seq[Entity] {
	return g.members.All()
}

// rescan rebuilds membership from scratch over the live entities.
func (g *group) rescan(entities *EntityAllocator) {
	g.members.Clear()
	for e := range entities.All() {
		sig, _ := entities.Signature(e)
		if sig.Contains(g.required) {
			g.members.Insert(e)
		}
	}
}

// groupSet is a collection of groups of one kind, keyed by Go type and kept in
// registration order.
type groupSet struct {
	kind        GroupKind
	maxEntities uint32
	groups      []*group
	byKey       map[reflect.Type]*group
}

func newGroupSet(kind GroupKind, maxEntities uint32) *groupSet {
	return &groupSet{
		kind:        kind,
		maxEntities: maxEntities,
		byKey:       make(map[reflect.Type]*group),
	}
}

func (s *groupSet) register(key reflect.Type, name string, required Signature) (*group, error) {
	if _, ok := s.byKey[key]; ok {
		return nil, eris.Wrapf(ErrGroupExists, "%s %s", s.kind, name)
	}
	g := &group{
		key:      key,
		name:     name,
		kind:     s.kind,
		required: required,
		members:  NewSparseSet(Entity(s.maxEntities-1), int(s.maxEntities)),
	}
	s.byKey[key] = g
	s.groups = append(s.groups, g)
	return g, nil
}

func (s *groupSet) lookup(key reflect.Type) (*group, error) {
	g, ok := s.byKey[key]
	if !ok {
		return nil, eris.Wrapf(ErrGroupNotRegistered, "%s %s", s.kind, key)
	}
	return g, nil
}

func (s *groupSet) has(key reflect.Type) bool {
	_, ok := s.byKey[key]
	return ok
}

// setSignature replaces a group's requirement. Membership is not refreshed.
func (s *groupSet) setSignature(key reflect.Type, required Signature) (*group, error) {
	g, err := s.lookup(key)
	if err != nil {
		return nil, err
	}
	g.setRequired(required)
	return g, nil
}

func (s *groupSet) onEntityDestroyed(e Entity) {
	for _, g := range s.groups {
		g.onEntityDestroyed(e)
	}
}

func (s *groupSet) onEntitySignatureChanged(e Entity, sig Signature) {
	for _, g := range s.groups {
		g.onEntitySignatureChanged(e, sig)
	}
}
