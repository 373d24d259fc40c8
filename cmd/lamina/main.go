// Command lamina lays out an HTML file and writes the painted result to
// a PNG, driving the layout worker through its full message protocol.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"lamina/pkg/css"
	"lamina/pkg/geom"
	"lamina/pkg/html"
	"lamina/pkg/images"
	"lamina/pkg/layout"
	"lamina/pkg/render"
)

func main() {
	var (
		input   = flag.String("in", "", "HTML file to lay out")
		output  = flag.String("out", "out.png", "PNG file to write")
		width   = flag.Float64("width", 800, "viewport width in px")
		height  = flag.Float64("height", 600, "viewport height in px")
		threads = flag.Int("threads", 1, "layout threads (1 = sequential)")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: lamina -in page.html [-out page.png]")
		os.Exit(2)
	}
	if err := run(*input, *output, *width, *height, *threads, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "lamina:", err)
		os.Exit(1)
	}
}

func run(input, output string, width, height float64, threads int, verbose bool) error {
	logger := zap.NewNop()
	if verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}
	defer logger.Sync()

	source, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	doc, err := html.Parse(string(source))
	if err != nil {
		return err
	}

	layoutChan := make(chan layout.Msg)
	scriptChan := make(chan layout.ScriptMsg, 16)
	renderChan := make(chan render.Msg)

	renderer := render.Spawn(renderChan, logger)
	shutdown := layout.Spawn(1, layout.Opts{LayoutThreads: threads, VerifyFlowTree: true},
		layoutChan, scriptChan, renderChan, images.NewCache(), logger)

	for _, sheetText := range doc.Stylesheets {
		sheet, err := css.ParseStylesheet(sheetText)
		if err != nil {
			continue
		}
		layoutChan <- layout.AddStylesheetMsg{Sheet: sheet}
	}

	join := make(chan struct{}, 1)
	layoutChan <- layout.ReflowMsg{Data: &layout.Reflow{
		Document:       doc,
		Damage:         layout.DocumentDamage{Level: layout.ContentChangedDocumentDamage},
		Goal:           layout.ReflowForDisplay,
		ID:             1,
		WindowSize:     geom.Size{Width: width, Height: height},
		ScriptJoinChan: join,
	}}
	<-join
	<-scriptChan // ReflowComplete

	ack := make(chan struct{}, 1)
	layoutChan <- layout.PrepareToExitMsg{Ack: ack}
	<-ack
	layoutChan <- layout.ExitNowMsg{}
	<-shutdown

	snapshot := renderer.Snapshot()
	if snapshot == nil {
		return fmt.Errorf("no frame was painted")
	}
	return gg.SavePNG(output, snapshot)
}
