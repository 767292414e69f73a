// Package script drives an engine from Lua.
//
// Scripts run in a gopher-lua state with only the base, table, string and
// math libraries opened. A global "editor" table exposes the engine:
//
//	editor.insert("hello")
//	editor.select(0, 5)
//	editor.delete()
//	editor.undo()
//	local s, e = editor.selection()
//
// Engine errors are raised as Lua errors, so pcall can recover them.
package script
