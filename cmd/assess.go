package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/volunteer-match/internal/assess"
	"github.com/sells-group/volunteer-match/internal/config"
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/session"
)

var (
	assessAnswersFile string
	assessInteractive bool
	assessStudent     bool
	assessFormat      string
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run the questionnaire from an answers file or interactively",
	Long: `Runs one questionnaire without the HTTP server and prints the recommendation.

Answers come from a YAML file keyed by question key:

  student: false
  answers:
    age: 18
    physical_ability: "Yes"
    required_skills: ["Mechanical/Technical Skills"]

or, with --interactive, from prompts on the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if assessFormat != "table" && assessFormat != "json" {
			return eris.Errorf("assess: unknown format %q (table or json)", assessFormat)
		}
		if (assessAnswersFile == "") == !assessInteractive {
			return eris.New("assess: pass exactly one of --answers or --interactive")
		}

		var (
			a       answerer
			student *bool
		)
		if assessInteractive {
			a = promptAnswers{}
		} else {
			fa, err := readAnswersFile(assessAnswersFile)
			if err != nil {
				return err
			}
			a, student = fa, fa.Student
		}
		if cmd.Flags().Changed("student") {
			student = &assessStudent
		}

		env, err := initApp(cmd.Context(), config.ModeAssess)
		if err != nil {
			return err
		}
		defer env.Close()

		id, _, err := env.Sessions.Create(student)
		if err != nil {
			return err
		}
		res, st, err := runAssessment(cmd.Context(), env.Sessions, id, a, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return writeAssessment(cmd.OutOrStdout(), assessFormat, id, res, st)
	},
}

func init() {
	assessCmd.Flags().StringVar(&assessAnswersFile, "answers", "", "YAML file of answers keyed by question key")
	assessCmd.Flags().BoolVar(&assessInteractive, "interactive", false, "prompt for each answer")
	assessCmd.Flags().BoolVar(&assessStudent, "student", false, "answer as a student volunteer")
	assessCmd.Flags().StringVar(&assessFormat, "format", "table", "output format: table or json")
	rootCmd.AddCommand(assessCmd)
}

// answerer supplies the raw answer to one question.
type answerer interface {
	Answer(q model.Question) (json.RawMessage, error)
	// Retry reports whether a rejected answer should be asked again.
	Retry() bool
}

// answersFile is the --answers document.
type answersFile struct {
	Student *bool          `yaml:"student"`
	Answers map[string]any `yaml:"answers"`
}

func readAnswersFile(path string) (*answersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "assess: read answers")
	}
	return parseAnswers(data)
}

func parseAnswers(data []byte) (*answersFile, error) {
	var f answersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "assess: parse answers")
	}
	if len(f.Answers) == 0 {
		return nil, eris.New("assess: answers file has no answers")
	}
	return &f, nil
}

func (f *answersFile) Answer(q model.Question) (json.RawMessage, error) {
	v, ok := f.Answers[q.Key]
	if !ok {
		return nil, eris.Wrapf(assess.ErrInvalid, "no answer for question %q", q.Key)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrapf(err, "assess: encode answer %q", q.Key)
	}
	return raw, nil
}

func (f *answersFile) Retry() bool { return false }

// promptAnswers asks on the terminal.
type promptAnswers struct{}

func (promptAnswers) Retry() bool { return true }

func (promptAnswers) Answer(q model.Question) (json.RawMessage, error) {
	switch {
	case q.Type.IsSelect():
		labels := make([]string, len(q.Options))
		for i, o := range q.Options {
			labels[i] = o.Label
			if labels[i] == "" {
				labels[i] = o.Value
			}
		}
		p := promptui.Select{Label: q.Text, Items: labels}
		i, _, err := p.Run()
		if err != nil {
			return nil, eris.Wrap(err, "assess: prompt")
		}
		return json.Marshal(q.Options[i].Value)

	case q.Type == model.InputMultiSelect:
		p := promptui.Prompt{
			Label: fmt.Sprintf("%s [%s, comma separated, blank for none]", q.Text, strings.Join(q.OptionValues(), " | ")),
		}
		s, err := p.Run()
		if err != nil {
			return nil, eris.Wrap(err, "assess: prompt")
		}
		return json.Marshal(s)
	}

	p := promptui.Prompt{
		Label: q.Text,
		Validate: func(s string) error {
			_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			return err
		},
	}
	s, err := p.Run()
	if err != nil {
		return nil, eris.Wrap(err, "assess: prompt")
	}
	n, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return json.Marshal(n)
}

// runAssessment answers every question of session id in order.
func runAssessment(ctx context.Context, m *session.Manager, id string, a answerer, errOut io.Writer) (assess.Result, assess.State, error) {
	s, err := m.Get(id)
	if err != nil {
		return assess.Result{}, assess.State{}, err
	}
	for {
		q, ok := s.Current()
		if !ok {
			break
		}
		raw, err := a.Answer(q)
		if err != nil {
			return assess.Result{}, assess.State{}, err
		}
		p, err := m.Submit(ctx, id, q.ID, raw)
		if err != nil {
			if a.Retry() && assess.IsValidation(err) {
				_, _ = fmt.Fprintf(errOut, "%v\n", err)
				continue
			}
			return assess.Result{}, assess.State{}, eris.Wrapf(err, "question %q", q.Key)
		}
		zap.L().Debug("answer accepted", zap.String("key", q.Key), zap.Strings("eliminated", p.Outcome.Eliminated))
	}

	res, err := m.Result(id)
	if err != nil {
		return assess.Result{}, assess.State{}, err
	}
	st, err := m.State(id)
	if err != nil {
		return assess.Result{}, assess.State{}, err
	}
	return res, st, nil
}

type assessmentReport struct {
	SessionID string             `json:"session_id"`
	Result    assess.Result      `json:"result"`
	Scores    []assess.RoleScore `json:"scores"`
	Remaining int                `json:"remaining"`
}

func writeAssessment(out io.Writer, format, id string, res assess.Result, st assess.State) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(assessmentReport{SessionID: id, Result: res, Scores: st.Scores, Remaining: st.Remaining})
	}

	eliminated := make(map[string]bool, len(st.Eliminated))
	for _, name := range st.Eliminated {
		eliminated[name] = true
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Best fit roles:\t%s\n", res.BestFit())
	_, _ = fmt.Fprintf(w, "Next best roles:\t%s\n", res.NextBest())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "ROLE\tSCORE\tSTATUS")
	_, _ = fmt.Fprintln(w, "----\t-----\t------")
	for _, rs := range st.Scores {
		status := "eligible"
		if eliminated[rs.Role] {
			status = "eliminated"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", rs.Role, rs.Score, status)
	}
	return w.Flush()
}
