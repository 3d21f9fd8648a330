package commands

type Result struct {
	Message string
}

type Handlers struct {
	Plant    func(PlantArgs) (Result, error)
	Move     func(MoveArgs) (Result, error)
	Resize   func(ResizeArgs) (Result, error)
	Complete func(CompleteArgs) (Result, error)
	Window   func(WindowArgs) (Result, error)
	Undo     func() (Result, error)
	Redo     func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypePlant:
		if handlers.Plant == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "plant handler not configured"}
		}
		return handlers.Plant(*cmd.Plant)
	case TypeMove:
		if handlers.Move == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "move handler not configured"}
		}
		return handlers.Move(*cmd.Move)
	case TypeResize:
		if handlers.Resize == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "resize handler not configured"}
		}
		return handlers.Resize(*cmd.Resize)
	case TypeComplete:
		if handlers.Complete == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "complete handler not configured"}
		}
		return handlers.Complete(*cmd.Complete)
	case TypeWindow:
		if handlers.Window == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "window handler not configured"}
		}
		return handlers.Window(*cmd.Window)
	case TypeUndo:
		if handlers.Undo == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "undo handler not configured"}
		}
		return handlers.Undo()
	case TypeRedo:
		if handlers.Redo == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "redo handler not configured"}
		}
		return handlers.Redo()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: string(cmd.Type)}
	}
}
