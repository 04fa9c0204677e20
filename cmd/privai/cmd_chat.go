package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/privai/internal/app"
	"github.com/user/privai/internal/catalog"
	"github.com/user/privai/internal/orchestrator"
	"github.com/user/privai/internal/store"
	"github.com/user/privai/internal/types"
)

func init() {
	chatCmd.Flags().String("model", "", "model id (defaults to the configured default)")
	chatCmd.Flags().String("session", "", "resume an existing session by id")
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively from the terminal",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	st := store.Open(cfg.DataDir)
	defer st.Close()

	a, err := app.New(st, orchestrator.New(), app.Options{
		DebounceWindow: time.Duration(cfg.SaveDebounce) * time.Millisecond,
		HistoryWindow:  cfg.HistoryWindow,
		EnvAPIKeys:     cfg.APIKeys,
	})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	if err := a.Hydrate(cmd.Context()); err != nil {
		return fmt.Errorf("hydrate state: %w", err)
	}
	defer a.Close()

	state := a.State()
	modelID, _ := cmd.Flags().GetString("model")
	sessionID, _ := cmd.Flags().GetString("session")

	var sess *types.ChatSession
	if sessionID != "" {
		a.Dispatch(app.SelectSession{ID: types.SessionID(sessionID)})
		sess = a.State().CurrentSession()
		if sess == nil {
			return fmt.Errorf("session %s not found", sessionID)
		}
	} else {
		modelCfg := state.DefaultModelConfig
		if modelID != "" {
			def, ok := catalog.ByID(modelID)
			if !ok {
				return fmt.Errorf("unknown model %q (try 'privai models')", modelID)
			}
			temp := float32(0.7)
			if modelCfg.Temperature != nil {
				temp = *modelCfg.Temperature
			}
			modelCfg = catalog.NewModelConfig(def, temp)
		}
		sess = types.NewChatSession("Terminal chat "+time.Now().Format("2006-01-02 15:04"), modelCfg)
		a.Dispatch(app.CreateSession{Session: sess})
	}

	fmt.Printf("Chatting with %s. Ctrl-D or /quit to exit.\n\n", a.State().CurrentSession().ModelConfig.ModelID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		printDone := make(chan struct{})
		printIdle := make(chan struct{})
		go printStream(a, printDone, printIdle)

		_, err := a.Send(cmd.Context(), line, nil)
		close(printDone)
		<-printIdle
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nerror: %v\n", err)
			continue
		}
		finalPrint(a)
		fmt.Println()
	}
	fmt.Println()
	return scanner.Err()
}

// printStream tails the growing assistant reply, printing only the new
// suffix of each snapshot.
func printStream(a *app.App, done <-chan struct{}, idle chan<- struct{}) {
	sub, cancel := a.Subscribe()
	defer cancel()
	defer close(idle)

	printed := 0
	for {
		select {
		case snap := <-sub:
			content, ok := lastAssistantContent(snap)
			if !ok {
				continue
			}
			if len(content) > printed {
				fmt.Print(content[printed:])
				printed = len(content)
			}
		case <-done:
			// Catch anything committed after the last snapshot we saw.
			if content, ok := lastAssistantContent(a.State()); ok && len(content) > printed {
				fmt.Print(content[printed:])
			}
			return
		}
	}
}

func finalPrint(a *app.App) {
	if content, ok := lastAssistantContent(a.State()); ok && !strings.HasSuffix(content, "\n") {
		fmt.Println()
	}
}

func lastAssistantContent(snap app.AppState) (string, bool) {
	sess := snap.CurrentSession()
	if sess == nil || len(sess.Messages) == 0 {
		return "", false
	}
	msg := sess.Messages[len(sess.Messages)-1]
	if msg.Role != types.RoleAssistant {
		return "", false
	}
	return msg.Content, true
}
