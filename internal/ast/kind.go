package ast

// Kind names a node's variant. The set is closed: adding a node type
// without extending this switch is a compile-visible omission in the
// dispatch tables built on top of it.
func Kind(n Node) string {
	switch n.(type) {
	case *Script:
		return "Script"
	case *Rule:
		return "Rule"
	case *Ruleblock:
		return "Ruleblock"
	case *Block:
		return "Block"
	case *Instruction:
		return "Instruction"
	case *Constant:
		return "Constant"
	case *Compare:
		return "Compare"
	case *Assign:
		return "Assign"
	case *If:
		return "If"
	case *While:
		return "While"
	case *For:
		return "For"
	case *BinaryOp:
		return "BinaryOp"
	case *UnaryOp:
		return "UnaryOp"
	case *GlobalVar:
		return "GlobalVar"
	case *PlayerVar:
		return "PlayerVar"
	case *String:
		return "String"
	case *Number:
		return "Number"
	case *Time:
		return "Time"
	case *Vector:
		return "Vector"
	case *Array:
		return "Array"
	case *Item:
		return "Item"
	case *Attribute:
		return "Attribute"
	case *Call:
		return "Call"
	case *Function:
		return "Function"
	case *Return:
		return "Return"
	case nil:
		return "<nil>"
	default:
		return "Unknown"
	}
}
