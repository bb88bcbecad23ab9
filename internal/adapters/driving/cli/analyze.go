package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/facetag/internal/core/domain"
)

// msgNoFaces is printed when the analysis detects nothing.
const msgNoFaces = "No faces were detected in this image."

var analyzeCmd = &cobra.Command{
	Use:   "analyze [doc-id]",
	Short: "Detect and label faces in a document image",
	Long: `Fetch a document's image, submit it to the face service and list the
detected faces with the suggested names.

Faces are labelled with --save N=Name, where N is the face number shown
in the listing. --update-abstract then writes every confirmed name into the
document abstract after asking for confirmation (or with --yes).

Examples:
  facetag analyze 1042
  facetag analyze 1042 --save "1=Jane Smith" --save "2=John Doe"
  facetag analyze 1042 --save "1=Jane Smith" --update-abstract --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeSaves     []string
	analyzeUpdate    bool
	analyzeYes       bool
	analyzeProcessed string
	analyzeOutput    string
)

// faceOutput is the --output json|yaml shape of one face.
type faceOutput struct {
	Face     int             `json:"face" yaml:"face"`
	Name     string          `json:"name" yaml:"name"`
	State    string          `json:"state" yaml:"state"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
	Location json.RawMessage `json:"location" yaml:"-"`
}

// analysisOutput is the --output json|yaml shape of an analysis.
type analysisOutput struct {
	DocumentID string       `json:"doc_id" yaml:"doc_id"`
	Faces      []faceOutput `json:"faces" yaml:"faces"`
	Abstract   string       `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

func init() {
	analyzeCmd.Flags().StringArrayVar(&analyzeSaves, "save", nil, "Register a name for a face, as N=Name (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeUpdate, "update-abstract", false, "Write the confirmed names into the abstract")
	analyzeCmd.Flags().BoolVarP(&analyzeYes, "yes", "y", false, "Do not ask for confirmation")
	analyzeCmd.Flags().StringVar(&analyzeProcessed, "processed", "", "Write the annotated image to this file")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", formatTable, "Output format: table, json or yaml")

	rootCmd.AddCommand(analyzeCmd)
}

// saveSpec is one parsed --save flag.
type saveSpec struct {
	index int
	name  string
}

// parseSaveSpec parses "N=Name" with a 1-based face number.
func parseSaveSpec(s string) (saveSpec, error) {
	num, name, ok := strings.Cut(s, "=")
	if !ok {
		return saveSpec{}, fmt.Errorf("invalid --save %q: want N=Name", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n < 1 {
		return saveSpec{}, fmt.Errorf("invalid --save %q: face number must be 1 or more", s)
	}
	return saveSpec{index: n - 1, name: name}, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := checkFormat(analyzeOutput, formatTable, formatJSON, formatYAML); err != nil {
		return err
	}
	specs := make([]saveSpec, 0, len(analyzeSaves))
	for _, s := range analyzeSaves {
		spec, err := parseSaveSpec(s)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}

	rt, err := requireRuntime()
	if err != nil {
		return err
	}

	// Ask for the confirmation method before doing any work.
	var confirm func(string) bool
	if analyzeUpdate {
		c, err := confirmer(cmd, analyzeYes)
		if err != nil {
			return err
		}
		confirm = c
	}

	ctx := cmd.Context()
	docID := args[0]

	if _, err := rt.Viewer.Open(ctx, docID, docID); err != nil {
		return fmt.Errorf("failed to fetch image: %s", domain.UserMessage(err))
	}
	defer rt.Viewer.Close()

	sess, err := rt.Faces.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("error communicating with face service: %s", domain.UserMessage(err))
	}

	if analyzeProcessed != "" && len(sess.ProcessedImage) > 0 {
		if err := os.WriteFile(analyzeProcessed, sess.ProcessedImage, 0o644); err != nil {
			return fmt.Errorf("failed to write processed image: %w", err)
		}
	}

	structured := analyzeOutput != formatTable
	if !sess.HasFaces() {
		if structured {
			return writeStructured(cmd.OutOrStdout(), analyzeOutput, analysisOutput{DocumentID: docID, Faces: []faceOutput{}})
		}
		cmd.Println(msgNoFaces)
		return nil
	}

	var errs []error
	for _, spec := range specs {
		if err := saveFace(cmd, rt, spec, !structured); err != nil {
			errs = append(errs, err)
		}
	}

	var abstractMsg string
	if analyzeUpdate {
		if _, err := rt.Abstract.Update(ctx, confirm); err != nil {
			if errors.Is(err, domain.ErrCancelled) {
				cmd.Println("Abstract update cancelled.")
			} else {
				errs = append(errs, fmt.Errorf("abstract update failed: %s", domain.UserMessage(err)))
			}
		} else {
			abstractMsg = rt.Abstract.Message()
			if !structured {
				cmd.Printf("%s (%s)\n", abstractMsg, strings.Join(rt.Abstract.CollectNames(), ", "))
			}
		}
	}

	final := rt.Faces.Session()
	if structured {
		out := analysisOutput{DocumentID: docID, Abstract: abstractMsg}
		for _, rec := range final.Records {
			fo := faceOutput{Face: rec.Position, Name: rec.Name, State: rec.State.String(), Location: rec.Face.Location}
			if rec.Err != nil {
				fo.Error = domain.UserMessage(rec.Err)
			}
			out.Faces = append(out.Faces, fo)
		}
		if err := writeStructured(cmd.OutOrStdout(), analyzeOutput, out); err != nil {
			return err
		}
	} else {
		cmd.Println(facesTable(final))
	}

	return errors.Join(errs...)
}

// saveFace applies one --save flag.
func saveFace(cmd *cobra.Command, rt *Runtime, spec saveSpec, verbose bool) error {
	label := fmt.Sprintf("Face #%d", spec.index+1)
	if err := rt.Faces.SetName(spec.index, spec.name); err != nil {
		return fmt.Errorf("%s: %s", label, domain.UserMessage(err))
	}
	rec, err := rt.Faces.Save(cmd.Context(), spec.index)
	if err != nil {
		return fmt.Errorf("%s: %s", label, domain.UserMessage(err))
	}
	if verbose {
		cmd.Println(rec.Confirmation())
	}
	return nil
}

// facesTable renders the face records of a session.
func facesTable(sess *domain.AnalysisSession) string {
	rows := make([][]string, 0, len(sess.Records))
	for i := range sess.Records {
		rec := &sess.Records[i]
		status := rec.State.String()
		if rec.Err != nil {
			status = "error: " + domain.UserMessage(rec.Err)
		}
		rows = append(rows, []string{rec.Label(), rec.Name, status})
	}
	return renderTable([]string{"FACE", "NAME", "STATUS"}, rows)
}
