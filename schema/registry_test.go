package schema

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/wordwire/message"
)

var (
	person  = message.StructLayout{DataWords: 1, PointerCount: 2}
	address = message.StructLayout{DataWords: 0, PointerCount: 3}
)

func TestTypeID(t *testing.T) {
	// xxHash64 of "test"
	require.Equal(t, ID(0x4fdcca5ddb678139), TypeID("test"))
	require.Equal(t, "0x4fdcca5ddb678139", TypeID("test").String())
	require.NotEqual(t, TypeID("addressbook.Person"), TypeID("addressbook.Address"))
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	id, err := r.Register("addressbook.Person", person)
	require.NoError(t, err)
	require.Equal(t, TypeID("addressbook.Person"), id)

	_, err = r.Register("addressbook.Address", address)
	require.NoError(t, err)
	require.Equal(t, 2, r.Len())

	got, err := r.Lookup("addressbook.Person")
	require.NoError(t, err)
	require.Equal(t, Type{ID: id, Name: "addressbook.Person", Layout: person}, got)

	got, err = r.LookupID(id)
	require.NoError(t, err)
	require.Equal(t, person, got.Layout)
}

func TestRegistry_Reregister(t *testing.T) {
	r := NewRegistry()
	first := r.MustRegister("addressbook.Person", person)

	again, err := r.Register("addressbook.Person", person)
	require.NoError(t, err)
	require.Equal(t, first, again)

	_, err = r.Register("addressbook.Person", address)
	require.ErrorIs(t, err, ErrLayoutConflict)

	got, err := r.Lookup("addressbook.Person")
	require.NoError(t, err)
	require.Equal(t, person, got.Layout)
}

func TestRegistry_Collision(t *testing.T) {
	r := NewRegistry()
	r.typeID = func(string) ID { return 42 }

	_, err := r.Register("a.First", person)
	require.NoError(t, err)

	_, err = r.Register("b.Second", address)
	require.ErrorIs(t, err, ErrTypeIDCollision)
	require.Contains(t, err.Error(), `"a.First"`)

	_, err = r.Lookup("b.Second")
	require.ErrorIs(t, err, ErrUnknownType)
	require.Equal(t, 1, r.Len())
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register("  ", person)
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = r.Lookup("missing.Type")
	require.ErrorIs(t, err, ErrUnknownType)

	_, err = r.LookupID(7)
	require.ErrorIs(t, err, ErrUnknownType)

	require.Panics(t, func() {
		r.MustRegister("", person)
	})
}

func TestRegistry_All(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"c.Gamma", "a.Alpha", "b.Beta"} {
		r.MustRegister(name, person)
	}

	var names []string
	for typ := range r.All() {
		names = append(names, typ.Name)
	}
	require.Equal(t, []string{"a.Alpha", "b.Beta", "c.Gamma"}, names)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				name := fmt.Sprintf("pkg.Type%d", i)
				if _, err := r.Register(name, message.StructLayout{DataWords: uint16(i)}); err != nil {
					t.Errorf("goroutine %d: %v", g, err)
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 100, r.Len())
}
