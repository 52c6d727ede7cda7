// Package message builds and reads messages in the wordwire memory layout.
//
// A message is a set of segments whose first word is the root pointer. Builders
// allocate objects directly into segment memory, so a finished Builder is already in
// wire form; Readers interpret received segment bytes in place and never copy them.
//
// # Building
//
//	b, err := message.NewBuilder()
//	person, err := b.InitRoot(message.StructLayout{DataWords: 1, PointerCount: 1})
//	person.SetUint32(0, 123)
//	err = person.SetText(0, "Alice")
//
// Field offsets passed to data accessors are byte offsets into the struct's data
// section; Bool takes a bit offset. Out-of-range data offsets and list indexes are
// programmer errors and panic on builders, just like slice indexing. Pointer
// operations that allocate return errors only when a size cannot be represented in
// the wire format.
//
// # Reading
//
//	r, err := message.NewReader(segments, message.WithTraversalLimit(1<<20))
//	root, err := r.Root()
//	id := root.Uint32(0)
//	name, err := root.Text(0)
//
// Reading is forgiving about shape: data and pointers beyond what a struct carries on
// the wire read as zero, null pointers read as empty structs and lists, so a reader
// compiled against a newer or older layout than the writer keeps working. Reading is
// strict about safety: every pointer is bounds-checked against its segment and every
// dereference is charged against the traversal budget and nesting depth of the
// current Root call.
//
// Builders are single-writer. A Reader is immutable and may be shared; each Root call
// starts an independent traversal whose budget is shared by all views derived from it.
package message
