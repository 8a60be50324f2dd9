// Package semantic is the two-phase semantic parser of spec §4.4: it
// normalizes pseudo-op shorthand, resolves each operand against the ISA
// table, and maintains a symbol table plus a Table of Incomplete
// Instructions (TII) so a label may be used before its definition.
package semantic

import (
	"strconv"
	"strings"

	"github.com/lookbusy1344/sixbit-toolchain/diag"
	"github.com/lookbusy1344/sixbit-toolchain/isa"
	"github.com/lookbusy1344/sixbit-toolchain/sparser"
)

// InstructionField is one encoded value (an opcode or an operand) paired
// with the bit width it occupies in the final encoding.
type InstructionField struct {
	Value    uint32
	BitCount uint8
}

// Instruction is a statement after semantic analysis: a resolved opcode,
// its resolved operand fields, and the total bit size it will occupy.
type Instruction struct {
	Opcode   InstructionField
	Operands []InstructionField
	Size     uint32
}

// ErrorKind categorizes a semantic Error.
type ErrorKind int

const (
	ShapeMismatch ErrorKind = iota
	OperandCountMismatch
	UnknownOperation
	ParseIntFailed
	NotI8
	LabelAlreadyInUse
	UndefinedLabel
)

// Error is the semantic parser's single error type.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// twoOperandArithmetic is the set of opcodes whose canonical three-address
// form (dst, dst, src) may be written in two-operand shorthand.
var twoOperandArithmetic = map[string]bool{
	"ADD": true, "ADDI": true, "ADC": true, "ADCI": true,
	"SUB": true, "SUBI": true, "SBC": true, "SBCI": true,
	"MULT": true, "MULTI": true,
	"AND": true, "OR": true, "XOR": true,
}

// tiiEntry records one unresolved label reference: which instruction and
// which of its operand slots need patching once the label is defined.
type tiiEntry struct {
	instructionNumber int
	operandNumber     int
}

// Parser holds the symbol table and TII across a single assembly run.
// Each instance is single-use: call Parse once per program.
type Parser struct {
	table            *isa.Table
	symtab           map[string]uint32
	tii              map[string][]tiiEntry
	tiiLoc           map[string]sparser.Field
	locationCounter  uint32
	instructionCount int
}

// New returns a Parser bound to the given ISA table.
func New(table *isa.Table) *Parser {
	return &Parser{
		table:  table,
		symtab: make(map[string]uint32),
		tii:    make(map[string][]tiiEntry),
		tiiLoc: make(map[string]sparser.Field),
	}
}

// normalize expands two-operand arithmetic shorthand to the canonical
// three-address form, and a one-operand NOT to its two-address form. All
// other statements pass through unchanged.
func normalize(statements []sparser.Statement) []sparser.Statement {
	out := make([]sparser.Statement, len(statements))
	for i, stmt := range statements {
		out[i] = stmt
		if stmt.OperationName == nil || stmt.Operands == nil {
			continue
		}
		name := stmt.OperationName.Value
		switch {
		case twoOperandArithmetic[name] && len(stmt.Operands) == 2:
			out[i].Operands = []sparser.Field{stmt.Operands[0], stmt.Operands[0], stmt.Operands[1]}
		case name == "NOT" && len(stmt.Operands) == 1:
			out[i].Operands = []sparser.Field{stmt.Operands[0], stmt.Operands[0]}
		}
	}
	return out
}

func sourceLine(loc diag.Position, sourceLines []string) string {
	if loc.Line-1 >= 0 && loc.Line-1 < len(sourceLines) {
		return sourceLines[loc.Line-1]
	}
	return ""
}

// parseOperand resolves one operand token against its OperandSpec. A
// Label token not yet present in the symbol table is recorded in the TII
// and resolved with a placeholder value of 0, to be patched later.
func (p *Parser) parseOperand(field sparser.Field, spec isa.OperandSpec, operandNumber int, sourceLines []string) (InstructionField, error) {
	noun := map[isa.OperandKind]string{
		isa.Register: "register",
		isa.Constant: "constant",
		isa.Memory:   "memory address",
		isa.Label:    "label",
	}[spec.Kind]

	if !spec.Regex.MatchString(field.Value) {
		return InstructionField{}, &Error{Kind: ShapeMismatch, Message: diag.Diagnostic{
			Headline:   "Token '" + field.Value + "' does not look like a " + noun,
			Line:       field.Loc.Line,
			Column:     field.Loc.Column,
			SourceLine: sourceLine(field.Loc, sourceLines),
			Help:       "operand must match the regex: " + spec.Pattern,
		}.Render()}
	}

	switch spec.Kind {
	case isa.Register:
		n, err := strconv.ParseUint(field.Value[1:], 10, 32)
		if err != nil {
			return InstructionField{}, &Error{Kind: ParseIntFailed, Message: "unable to parse register number: " + field.Value}
		}
		return InstructionField{Value: uint32(n), BitCount: spec.Bits}, nil

	case isa.Constant:
		n, err := strconv.ParseInt(field.Value, 10, 16)
		if err != nil || n < -128 || n > 127 {
			return InstructionField{}, &Error{Kind: NotI8, Message: "constant does not fit in a signed 8 bit value: " + field.Value}
		}
		return InstructionField{Value: uint32(uint8(int8(n))), BitCount: spec.Bits}, nil

	case isa.Memory:
		n, err := strconv.ParseUint(field.Value, 10, 32)
		if err != nil {
			return InstructionField{}, &Error{Kind: ParseIntFailed, Message: "unable to parse memory address: " + field.Value}
		}
		return InstructionField{Value: uint32(n), BitCount: spec.Bits}, nil

	case isa.Label:
		if loc, ok := p.symtab[field.Value]; ok {
			return InstructionField{Value: loc, BitCount: spec.Bits}, nil
		}
		p.tii[field.Value] = append(p.tii[field.Value], tiiEntry{
			instructionNumber: p.instructionCount,
			operandNumber:     operandNumber,
		})
		p.tiiLoc[field.Value] = field
		return InstructionField{Value: 0, BitCount: spec.Bits}, nil
	}

	return InstructionField{}, &Error{Kind: ShapeMismatch, Message: "unreachable operand kind"}
}

// analyzeStatement resolves one non-label statement into an Instruction.
func (p *Parser) analyzeStatement(stmt sparser.Statement, sourceLines []string) (Instruction, error) {
	opName := stmt.OperationName
	op, ok := p.table.ByName(opName.Value)
	if !ok {
		return Instruction{}, &Error{Kind: UnknownOperation, Message: diag.Diagnostic{
			Headline:   "Unknown opcode '" + opName.Value + "'",
			Line:       opName.Loc.Line,
			Column:     opName.Loc.Column,
			SourceLine: sourceLine(opName.Loc, sourceLines),
		}.Render()}
	}

	expected := op.Operands
	got := stmt.Operands

	if len(got) < len(expected) {
		return Instruction{}, operandCountError(opName, sourceLines, "Too few operands", len(expected))
	}
	if len(got) > len(expected) {
		return Instruction{}, operandCountError(opName, sourceLines, "Too many operands", len(expected))
	}

	fields := make([]InstructionField, len(expected))
	for i, spec := range expected {
		f, err := p.parseOperand(got[i], spec, i, sourceLines)
		if err != nil {
			return Instruction{}, err
		}
		fields[i] = f
	}

	size := uint32(isa.OpcodeBits)
	for _, f := range fields {
		size += uint32(f.BitCount)
	}

	p.instructionCount++

	return Instruction{
		Opcode:   InstructionField{Value: op.Opcode, BitCount: isa.OpcodeBits},
		Operands: fields,
		Size:     size,
	}, nil
}

func operandCountError(opName *sparser.Field, sourceLines []string, headline string, want int) error {
	return &Error{Kind: OperandCountMismatch, Message: diag.Diagnostic{
		Headline:   headline,
		Line:       opName.Loc.Line,
		Column:     opName.Loc.Column,
		SourceLine: sourceLine(opName.Loc, sourceLines),
		Help:       "operation " + opName.Value + " requires " + strconv.Itoa(want) + " operands",
	}.Render()}
}

// Parse runs normalization followed by the label-resolution pass,
// returning one Instruction per statement that names an operation. A
// label definition advances the symbol table and patches any
// forward references recorded in the TII; any TII entry still
// unresolved once the program is exhausted fails with UndefinedLabel.
func (p *Parser) Parse(statements []sparser.Statement, sourceLines []string) ([]Instruction, error) {
	statements = normalize(statements)

	var instructions []Instruction
	for _, stmt := range statements {
		if stmt.Label != nil {
			name := stmt.Label.Value
			if _, exists := p.symtab[name]; exists {
				return nil, &Error{Kind: LabelAlreadyInUse, Message: "label " + name + " already in use"}
			}
			p.symtab[name] = p.locationCounter

			if entries, ok := p.tii[name]; ok {
				for _, e := range entries {
					instructions[e.instructionNumber].Operands[e.operandNumber].Value = p.locationCounter
				}
				delete(p.tii, name)
				delete(p.tiiLoc, name)
			}
		}

		if stmt.OperationName != nil {
			instr, err := p.analyzeStatement(stmt, sourceLines)
			if err != nil {
				return nil, err
			}
			p.locationCounter += instr.Size
			instructions = append(instructions, instr)
		}
	}

	if len(p.tii) > 0 {
		var b strings.Builder
		for name := range p.tii {
			loc := p.tiiLoc[name]
			b.WriteString(diag.Diagnostic{
				Headline:   "Undefined label '" + name + "'",
				Line:       loc.Loc.Line,
				Column:     loc.Loc.Column,
				SourceLine: sourceLine(loc.Loc, sourceLines),
			}.Render())
		}
		return nil, &Error{Kind: UndefinedLabel, Message: b.String()}
	}

	return instructions, nil
}
