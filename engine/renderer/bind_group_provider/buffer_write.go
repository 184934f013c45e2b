package bind_group_provider

// BufferWrite is one queued write into the buffer at Binding of Provider.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
