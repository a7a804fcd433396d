// ABOUTME: Audio commands: list, upload, edit, edit history, download and delete
// ABOUTME: Uploaded paths are remembered for the console's file picker

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/store"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/tui/filepicker"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/validate"
)

var (
	audioTitle    string
	audioEditType string
	audioParams   []string
	audioOutput   string
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Manage audio files",
}

var audioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audio files",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runAudioList)
	},
}

var audioUploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload an audio file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runAudioUpload(ctx, e, args[0], w)
		})
	},
}

var audioEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Apply an edit to an audio file",
	Long: `Apply an edit. Parameters are key=value pairs; missing ones take defaults.

  trim    start_ms, end_ms
  volume  volume_change_db (-12 to 12)
  reverb  room_scale, damping (0 to 1)
  speed   speed_factor (0.5 to 2)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runAudioEdit(ctx, e, args[0], w)
		})
	},
}

var audioEditsCmd = &cobra.Command{
	Use:   "edits ID",
	Short: "Show the edit history of an audio file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runAudioEdits(ctx, e, args[0], w)
		})
	},
}

var audioDownloadCmd = &cobra.Command{
	Use:   "download ID",
	Short: "Download an audio file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runAudioDownload(ctx, e, args[0], w)
		})
	},
}

var audioDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an audio file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runAudioDelete(ctx, e, args[0], w)
		})
	},
}

func init() {
	rootCmd.AddCommand(audioCmd)
	audioCmd.AddCommand(audioListCmd, audioUploadCmd, audioEditCmd, audioEditsCmd, audioDownloadCmd, audioDeleteCmd)

	audioUploadCmd.Flags().StringVar(&audioTitle, "title", "", "Title (default: file name)")
	audioEditCmd.Flags().StringVar(&audioEditType, "type", "", "trim, volume, reverb or speed")
	audioEditCmd.Flags().StringArrayVarP(&audioParams, "param", "p", nil, "Edit parameter as key=value (repeatable)")
	audioEditCmd.MarkFlagRequired("type")
	audioDownloadCmd.Flags().StringVarP(&audioOutput, "output", "o", "", "Output path (default: title and type in the current directory)")
}

func runAudioList(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	files, err := e.client.Audio.List(ctx)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, files, func() {
		rows := make([][]string, 0, len(files))
		for _, f := range files {
			rows = append(rows, []string{
				strconv.Itoa(f.ID),
				f.Title,
				f.FileType,
				duration(f.Duration),
				strconv.Itoa(len(f.Edits)),
				f.CreatedAt.Local().Format("2006-01-02"),
			})
		}
		printTable(w, []string{"ID", "Title", "Type", "Length", "Edits", "Uploaded"}, rows)
	})
	return exitOK
}

// duration formats seconds as m:ss
func duration(secs *float64) string {
	if secs == nil {
		return "-"
	}
	total := int(*secs)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func runAudioUpload(ctx context.Context, e *env, path string, w io.Writer) int {
	if !filepicker.IsAudio(path) {
		return e.fail(w, fmt.Errorf("unsupported file type, use %s", strings.Join(filepicker.AudioExtensions, " ")))
	}
	f, err := os.Open(path)
	if err != nil {
		return e.fail(w, err)
	}
	defer f.Close()

	title := audioTitle
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := validate.Name("title", title); err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	af, err := e.client.Audio.Upload(ctx, title, filepath.Base(path), f)
	if err != nil {
		return e.fail(w, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		store.NewRecentFiles(e.cfg.ConfigDir).Add(abs)
	}
	emit(w, af, func() {
		fmt.Fprintf(w, "Uploaded %q as #%d\n", af.Title, af.ID)
	})
	return exitOK
}

func runAudioEdit(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	params, err := validate.ParseParams(audioParams)
	if err != nil {
		return e.fail(w, err)
	}
	if err := validate.EditParams(audioEditType, params); err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	edit, err := e.client.Audio.ApplyEdit(ctx, id, audioEditType, params)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, edit, func() {
		fmt.Fprintf(w, "Applied %s to #%d (%s)\n", edit.EditType, id, formatParams(edit.Parameters))
	})
	return exitOK
}

func runAudioEdits(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	edits, err := e.client.Audio.Edits(ctx, id)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, edits, func() {
		rows := make([][]string, 0, len(edits))
		for _, ed := range edits {
			rows = append(rows, []string{
				strconv.Itoa(ed.ID),
				ed.EditType,
				formatParams(ed.Parameters),
				ed.CreatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		printTable(w, []string{"ID", "Edit", "Parameters", "When"}, rows)
	})
	return exitOK
}

// formatParams renders parameters in the order the edit type defines them
func formatParams(params map[string]any) string {
	parts := make([]string, 0, len(params))
	seen := map[string]bool{}
	for _, t := range validate.EditTypes {
		for _, name := range validate.EditParamNames(t) {
			if v, ok := params[name]; ok && !seen[name] {
				seen[name] = true
				parts = append(parts, fmt.Sprintf("%s=%v", name, v))
			}
		}
	}
	for k, v := range params {
		if !seen[k] {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return strings.Join(parts, " ")
}

func runAudioDownload(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	out := audioOutput
	if out == "" {
		af, err := e.client.Audio.Get(ctx, id)
		if err != nil {
			return e.fail(w, err)
		}
		out = downloadName(af)
	}

	f, err := os.Create(out)
	if err != nil {
		return e.fail(w, err)
	}
	n, err := e.client.Audio.Download(ctx, id, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out)
		return e.fail(w, err)
	}
	fmt.Fprintf(w, "Saved %s (%d bytes)\n", out, n)
	return exitOK
}

// downloadName builds a safe local file name from the title and stored extension
func downloadName(af *client.AudioFile) string {
	ext := filepath.Ext(af.File)
	if ext == "" && af.FileType != "" {
		ext = "." + af.FileType
	}
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, strings.TrimSpace(af.Title))
	if name == "" {
		name = "audio-" + strconv.Itoa(af.ID)
	}
	return name + ext
}

func runAudioDelete(ctx context.Context, e *env, arg string, w io.Writer) int {
	id, err := parseID(arg)
	if err != nil {
		return e.fail(w, err)
	}
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	if err := e.client.Audio.Delete(ctx, id); err != nil {
		return e.fail(w, err)
	}
	fmt.Fprintf(w, "Deleted audio #%d\n", id)
	return exitOK
}
