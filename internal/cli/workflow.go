package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Sequent/internal/engine"
)

// NewWorkflowCmd создаёт группу команд для управления определениями.
func NewWorkflowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Manage workflow definitions",
	}

	cmd.AddCommand(
		newWorkflowListCmd(clientFn, outputFn),
		newWorkflowCreateCmd(clientFn, outputFn),
		newWorkflowShowCmd(clientFn, outputFn),
		newWorkflowUpdateCmd(clientFn, outputFn),
		newWorkflowDeleteCmd(clientFn, outputFn),
		newWorkflowRunCmd(clientFn, outputFn),
	)

	return cmd
}

func workflowRow(wf *WorkflowResponse) []string {
	return []string{wf.ID, wf.Name, strconv.Itoa(len(wf.Spec.Steps)), wf.CreatedAt}
}

var workflowHeaders = []string{"ID", "NAME", "STEPS", "CREATED"}

func newWorkflowListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all workflow definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workflows, err := client.ListWorkflows()
			if err != nil {
				return err
			}

			rows := make([][]string, len(workflows))
			for i := range workflows {
				rows[i] = workflowRow(&workflows[i])
			}

			out.Print(workflowHeaders, rows, workflows)
			return nil
		},
	}
}

func newWorkflowCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Save a workflow definition from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			// Файл валидируется локально до отправки
			spec, err := engine.LoadFile(file)
			if err != nil {
				return err
			}

			wf, err := client.CreateWorkflow(spec)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow created: %s", wf.Name))
			out.Print(workflowHeaders, [][]string{workflowRow(wf)}, wf)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Workflow YAML file (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newWorkflowShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show workflow definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			wf, err := client.GetWorkflow(args[0])
			if err != nil {
				return err
			}

			// Определение показываем целиком, таблица тут не годится
			out.JSON(wf)
			return nil
		},
	}
}

func newWorkflowUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Replace a workflow definition from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			spec, err := engine.LoadFile(file)
			if err != nil {
				return err
			}

			wf, err := client.UpdateWorkflow(args[0], spec)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow updated: %s", wf.Name))
			out.Print(workflowHeaders, [][]string{workflowRow(wf)}, wf)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Workflow YAML file (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newWorkflowDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a workflow definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteWorkflow(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Workflow deleted: %s", args[0]))
			return nil
		},
	}
}

func newWorkflowRunCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "run NAME",
		Short: "Run a saved workflow and wait for the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.RunWorkflow(args[0])
			if err != nil {
				return err
			}

			printExecutionResult(out, result)
			return nil
		},
	}
}

// printExecutionResult выводит итог запуска: таблицу шагов и результат.
func printExecutionResult(out *Output, result *ExecutionResultResponse) {
	headers := []string{"STEP", "SERVICE", "METHOD", "OUTPUT", "MS"}
	rows := make([][]string, len(result.StepResults))
	for i, sr := range result.StepResults {
		rows[i] = []string{
			strconv.Itoa(sr.Index),
			sr.Service,
			sr.Method,
			sr.Output,
			strconv.FormatFloat(sr.DurationMS, 'f', 1, 64),
		}
	}

	out.Print(headers, rows, result)
	out.Result(result.Result)
}
