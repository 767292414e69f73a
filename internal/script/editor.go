package script

import (
	lua "github.com/yuin/gopher-lua"
)

// register installs the global editor table.
func (r *Runner) register(L *lua.LState) {
	mod := L.NewTable()

	L.SetField(mod, "insert", L.NewFunction(r.insert))
	L.SetField(mod, "delete", L.NewFunction(r.delete))
	L.SetField(mod, "select", L.NewFunction(r.selectRange))
	L.SetField(mod, "undo", L.NewFunction(r.undo))
	L.SetField(mod, "redo", L.NewFunction(r.redo))
	L.SetField(mod, "content", L.NewFunction(r.content))
	L.SetField(mod, "selection", L.NewFunction(r.selection))
	L.SetField(mod, "can_undo", L.NewFunction(r.canUndo))
	L.SetField(mod, "can_redo", L.NewFunction(r.canRedo))
	L.SetField(mod, "begin_group", L.NewFunction(r.beginGroup))
	L.SetField(mod, "end_group", L.NewFunction(r.endGroup))

	L.SetGlobal("editor", mod)
}

// raise records err and converts it into a Lua error. It does not return.
func (r *Runner) raise(L *lua.LState, op string, err error) int {
	r.lastErr = err
	L.RaiseError("%s: %v", op, err)
	return 0
}

// checkContext stops the script between editor calls once the run is over.
func (r *Runner) checkContext(L *lua.LState) {
	if ctx := L.Context(); ctx != nil {
		if err := ctx.Err(); err != nil {
			L.RaiseError("%v", err)
		}
	}
}

// insert(text)
func (r *Runner) insert(L *lua.LState) int {
	r.checkContext(L)
	text := L.CheckString(1)
	if err := r.engine.Insert(text); err != nil {
		return r.raise(L, "insert", err)
	}
	return 0
}

// delete()
func (r *Runner) delete(L *lua.LState) int {
	r.checkContext(L)
	if err := r.engine.Delete(); err != nil {
		return r.raise(L, "delete", err)
	}
	return 0
}

// select(start, end)
// Collapses to a cursor when end is omitted.
func (r *Runner) selectRange(L *lua.LState) int {
	r.checkContext(L)
	start := L.CheckInt(1)
	end := L.OptInt(2, start)
	if err := r.engine.SetSelection(start, end); err != nil {
		return r.raise(L, "select", err)
	}
	return 0
}

// undo() -> bool
// Returns false when there was nothing to undo.
func (r *Runner) undo(L *lua.LState) int {
	r.checkContext(L)
	had := r.engine.CanUndo()
	if err := r.engine.Undo(); err != nil {
		return r.raise(L, "undo", err)
	}
	L.Push(lua.LBool(had))
	return 1
}

// redo() -> bool
func (r *Runner) redo(L *lua.LState) int {
	r.checkContext(L)
	had := r.engine.CanRedo()
	if err := r.engine.Redo(); err != nil {
		return r.raise(L, "redo", err)
	}
	L.Push(lua.LBool(had))
	return 1
}

// content() -> string
func (r *Runner) content(L *lua.LState) int {
	L.Push(lua.LString(r.engine.Content()))
	return 1
}

// selection() -> start, end
func (r *Runner) selection(L *lua.LState) int {
	sel := r.engine.Selection()
	L.Push(lua.LNumber(sel.Start))
	L.Push(lua.LNumber(sel.End))
	return 2
}

func (r *Runner) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(r.engine.CanUndo()))
	return 1
}

func (r *Runner) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(r.engine.CanRedo()))
	return 1
}

// begin_group(name)
func (r *Runner) beginGroup(L *lua.LState) int {
	r.engine.BeginUndoGroup(L.OptString(1, "Script"))
	return 0
}

// end_group()
func (r *Runner) endGroup(L *lua.LState) int {
	r.engine.EndUndoGroup()
	return 0
}
