package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unicon-campus/unicon-client/internal/connectivity"
	"github.com/unicon-campus/unicon-client/internal/logger"
	"github.com/unicon-campus/unicon-client/internal/service"
	"github.com/unicon-campus/unicon-client/models"
)

var ErrUserQuit = errors.New("user quit")

type TUI struct {
	services *service.ClientServices
	monitor  *connectivity.Monitor
}

func New(services *service.ClientServices, monitor *connectivity.Monitor, _ *logger.Logger) (*TUI, error) {
	return &TUI{services: services, monitor: monitor}, nil
}

// LoginFlow runs the sign-in screen until the user authenticates, chooses to
// continue offline (zero session), or quits.
func (t *TUI) LoginFlow(ctx context.Context) (models.Session, error) {
	model := NewLoginModel(ctx, t.services.AuthService)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return models.Session{}, runErr
	}

	result, ok := finalModel.(*LoginModel)
	if !ok {
		return models.Session{}, tea.ErrProgramKilled
	}
	if result.quitByUser {
		return models.Session{}, ErrUserQuit
	}

	return result.session, nil
}

// MainLoop runs the composer and queue screens until logout or quit. The
// connectivity subscription lives exactly as long as the loop, so repeated
// logout/login cycles do not accumulate dead listeners on the monitor.
func (t *TUI) MainLoop(ctx context.Context, session models.Session) (logout bool, err error) {
	updates := t.monitor.Subscribe()
	defer t.monitor.Unsubscribe(updates)

	model := newMainLoopModel(ctx, t.services, t.monitor, updates, session)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
