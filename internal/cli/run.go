package cli

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Sequent/internal/daemon"
	"github.com/shaiso/Sequent/internal/domain"
	"github.com/shaiso/Sequent/internal/engine"
	"github.com/shaiso/Sequent/internal/telemetry"
)

// NewExecCmd создаёт команду локального выполнения YAML-файла.
//
// Workflow выполняется прямо из процесса CLI, без API-сервера:
// endpoint'ы сервисов берутся из переменной окружения SERVICES.
func NewExecCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "exec FILE",
		Short: "Execute a workflow YAML file locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			wf, err := engine.LoadFile(args[0])
			if err != nil {
				return err
			}

			// Логи — в stderr, stdout остаётся для данных
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: telemetry.LogLevel(),
			}))
			eng := engine.New(engine.Config{
				Caller: daemon.NewClient(daemon.RegistryFromEnv(), logger),
				Logger: logger,
			})

			result, err := eng.Execute(cmd.Context(), wf)
			if err != nil {
				return err
			}

			printLocalResult(out, result)
			return nil
		},
	}
}

// NewValidateCmd создаёт команду проверки YAML-файла.
func NewValidateCmd(outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a workflow YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			wf, err := engine.LoadFile(args[0])
			if err != nil {
				return err
			}

			out.Success("Workflow is valid: " + wf.Name +
				" (" + strconv.Itoa(len(wf.Steps)) + " steps)")
			return nil
		},
	}
}

// printLocalResult выводит итог локального запуска.
func printLocalResult(out *Output, result *domain.ExecutionResult) {
	headers := []string{"STEP", "SERVICE", "METHOD", "OUTPUT", "MS"}
	rows := make([][]string, len(result.StepResults))
	for i, sr := range result.StepResults {
		rows[i] = []string{
			strconv.Itoa(sr.Index),
			sr.Step.Service,
			sr.Step.Method,
			sr.Step.Output,
			strconv.FormatFloat(float64(sr.Duration.Microseconds())/1000, 'f', 1, 64),
		}
	}

	out.Print(headers, rows, result)
	out.Result(result.Result)
}
