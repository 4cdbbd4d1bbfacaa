package sequencing

import "fmt"

// Interpolation selects how voltages between two table entries are formed.
type Interpolation string

const (
	InterpolationHold   Interpolation = "hold"
	InterpolationLinear Interpolation = "linear"
	InterpolationJump   Interpolation = "jump"
)

// ValidInterpolations lists the supported interpolation strategies.
var ValidInterpolations = map[Interpolation]bool{
	InterpolationHold:   true,
	InterpolationLinear: true,
	InterpolationJump:   true,
}

// WaveformEntry is one resolved point of a waveform table.
type WaveformEntry struct {
	Time          float64
	Voltage       float64
	Interpolation Interpolation
}

// WaveformTable is an ordered list of resolved entries.
type WaveformTable []WaveformEntry

// Waveform is a waveform registered with the sequencing hardware.
type Waveform interface {
	Duration() float64
}

// Trigger names a hardware trigger used by conditional jumps.
type Trigger string

// InstructionPointer addresses an instruction inside a block.
type InstructionPointer struct {
	Block  InstructionBlock
	Offset int
}

func (ip InstructionPointer) String() string {
	return fmt.Sprintf("IP <%p, %d>", ip.Block, ip.Offset)
}

// Instruction is one entry of an instruction block.
type Instruction interface {
	instruction()
}

// ExecInstruction plays a waveform.
type ExecInstruction struct {
	Waveform Waveform
}

// GotoInstruction jumps unconditionally.
type GotoInstruction struct {
	Target InstructionPointer
}

// CJmpInstruction jumps to Target when Trigger fires.
type CJmpInstruction struct {
	Trigger Trigger
	Target  InstructionPointer
}

// StopInstruction halts execution.
type StopInstruction struct{}

func (ExecInstruction) instruction() {}
func (GotoInstruction) instruction() {}
func (CJmpInstruction) instruction() {}
func (StopInstruction) instruction() {}

// InstructionBlock is a sequence of instructions that may own embedded
// blocks, such as the bodies of hardware-evaluated loops.
type InstructionBlock interface {
	// Outer returns the enclosing block, or nil for a top-level block.
	Outer() InstructionBlock

	// Instructions returns the instructions added so far, in order.
	Instructions() []Instruction

	AddExec(waveform Waveform)
	AddGoto(target InstructionPointer)
	AddCJmp(trigger Trigger, target InstructionBlock)
	AddStop()

	// CreateEmbeddedBlock returns a new block whose Outer is this block.
	CreateEmbeddedBlock() InstructionBlock

	// ReturnIP is where execution continues after the block's last
	// instruction. ok is false for blocks that simply end.
	ReturnIP() (ip InstructionPointer, ok bool)
	SetReturnIP(ip InstructionPointer)
}

// Block is the stock InstructionBlock.
type Block struct {
	outer        InstructionBlock
	instructions []Instruction
	returnIP     *InstructionPointer
}

// NewBlock creates an empty block nested in outer (nil for top level).
func NewBlock(outer InstructionBlock) *Block {
	return &Block{outer: outer}
}

func (b *Block) Outer() InstructionBlock {
	return b.outer
}

func (b *Block) Instructions() []Instruction {
	return append([]Instruction(nil), b.instructions...)
}

func (b *Block) AddExec(waveform Waveform) {
	b.instructions = append(b.instructions, ExecInstruction{Waveform: waveform})
}

func (b *Block) AddGoto(target InstructionPointer) {
	b.instructions = append(b.instructions, GotoInstruction{Target: target})
}

// AddCJmp adds a conditional jump to the start of target.
func (b *Block) AddCJmp(trigger Trigger, target InstructionBlock) {
	b.instructions = append(b.instructions, CJmpInstruction{
		Trigger: trigger,
		Target:  InstructionPointer{Block: target},
	})
}

func (b *Block) AddStop() {
	b.instructions = append(b.instructions, StopInstruction{})
}

func (b *Block) CreateEmbeddedBlock() InstructionBlock {
	return NewBlock(b)
}

func (b *Block) ReturnIP() (InstructionPointer, bool) {
	if b.returnIP == nil {
		return InstructionPointer{}, false
	}
	return *b.returnIP, true
}

func (b *Block) SetReturnIP(ip InstructionPointer) {
	b.returnIP = &ip
}
