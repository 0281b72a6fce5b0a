package object

// Traceable is implemented by every heap-allocated object kind (String,
// Code, Function, Native). The registry and the collector only ever see
// objects through this interface; concrete field access happens via type
// assertion on Value.Obj (see value.go's IsString/AsString etc.), matching
// the original's ObjectType-tagged struct plus down-cast macros.
type Traceable interface {
	// Marked reports whether the mark phase has already visited this
	// object during the current cycle.
	Marked() bool

	// SetMarked sets the mark bit. The sweep phase clears it again on
	// survivors so the flag is ready for the next cycle.
	SetMarked(bool)

	// Size is the object's accounted byte footprint, used to drive the
	// allocation-threshold heuristic in maybeGC.
	Size() int

	// Children returns every Object-kind Value this object directly
	// holds, so the collector's mark phase can enqueue them. Leaf kinds
	// (String, Native) return nil.
	Children() []Value

	// Repr renders the object the way the CLI's "result = <repr>" line
	// and the disassembler's constant column do.
	Repr() string
}

// Heap is the traceable registry: every heap object is registered here at
// allocation and contributes its byte size to a running allocation
// counter (spec.md §3's "Traceable registry"). Unlike the original C++
// source, which keeps this state as static globals on Traceable, Heap is
// instance state owned by a VM, the re-architecture spec.md §9 calls for
// ("re-architect as instance state owned by the VM"), so multiple
// independent VMs never share a registry.
type Heap struct {
	objects   []Traceable
	allocated int
}

// NewHeap returns an empty registry.
func NewHeap() *Heap {
	return &Heap{}
}

// Register adds obj to the registry and accounts its size. Every
// allocator in this package (NewString, NewCode, NewFunction, NewNative)
// calls this exactly once, at construction.
func (h *Heap) Register(obj Traceable) {
	h.objects = append(h.objects, obj)
	h.allocated += obj.Size()
}

// Allocated returns the running allocation counter, compared against
// config.GCThreshold by vm.maybeGC.
func (h *Heap) Allocated() int {
	return h.allocated
}

// Objects returns the live registry, in allocation order. The collector's
// sweep phase walks this slice; Sweep below replaces it with the survivor
// subset.
func (h *Heap) Objects() []Traceable {
	return h.objects
}

// Len returns the number of currently registered objects.
func (h *Heap) Len() int {
	return len(h.objects)
}

// Sweep unlinks every unmarked object and clears the mark bit on every
// survivor, per spec.md §4.5 point 3. It returns the number of objects
// reclaimed and the bytes reclaimed, for GC-cycle logging.
func (h *Heap) Sweep() (reclaimed int, bytesReclaimed int) {
	survivors := h.objects[:0]
	for _, obj := range h.objects {
		if obj.Marked() {
			obj.SetMarked(false)
			survivors = append(survivors, obj)
			continue
		}
		reclaimed++
		bytesReclaimed += obj.Size()
		h.allocated -= obj.Size()
	}
	h.objects = survivors
	return reclaimed, bytesReclaimed
}

// Cleanup deletes every registered object, used at VM teardown (spec.md
// §5's "terminal cleanup" resource policy).
func (h *Heap) Cleanup() {
	h.objects = nil
	h.allocated = 0
}
