// Command studio は画像生成・編集スタジオのバックエンドを起動します。
//
//	studio serve                                  HTTP サーバーを起動
//	studio run -prompt "..." [-ratio 16:9] -out out.png
//	studio run -image in.png -prompt "..." -out out.png
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/gemini-image-studio/pkg/config"
	"github.com/shouni/gemini-image-studio/pkg/generator"
	"github.com/shouni/gemini-image-studio/pkg/server"
	"github.com/shouni/gemini-image-studio/pkg/studio"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("終了します", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := "serve"
	if len(args) > 0 && (args[0] == "serve" || args[0] == "run") {
		cmd, args = args[0], args[1:]
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newImageService(ctx, cfg)
	if err != nil {
		return err
	}

	switch cmd {
	case "run":
		return runOnce(ctx, svc, args)
	default:
		return serve(ctx, cfg, svc)
	}
}

func newImageService(ctx context.Context, cfg *config.Config) (*generator.GeminiService, error) {
	client, err := generator.NewClient(ctx, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("Gemini クライアントの初期化に失敗しました: %w", err)
	}
	core, err := generator.NewGeminiImageCore(client)
	if err != nil {
		return nil, err
	}
	return generator.NewGeminiService(core, client,
		generator.WithImageModel(cfg.ImageModel),
		generator.WithEditModel(cfg.EditModel),
	)
}

func serve(ctx context.Context, cfg *config.Config, svc generator.ImageService) error {
	manager := studio.NewManager(func() (*studio.Controller, error) {
		return studio.NewController(svc)
	}, cfg.SessionTTL)

	srv, err := server.New(manager,
		server.WithMaxUploadSize(cfg.MaxUploadSize),
		server.WithSubmitRate(cfg.SubmitRPS, cfg.SubmitBurst),
	)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, cfg.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		manager.Shutdown()
		return nil
	})
	return g.Wait()
}

// runOnce はサーバーを介さずに 1 回だけ生成または編集を行い、結果をファイルに書き出します。
func runOnce(ctx context.Context, svc generator.ImageService, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	prompt := fs.String("prompt", "", "プロンプト (必須)")
	imagePath := fs.String("image", "", "編集する画像ファイル。指定すると edit モード")
	ratio := fs.String("ratio", "1:1", "アスペクト比 (generate モードのみ)")
	out := fs.String("out", "output.png", "出力先ファイル")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctrl, err := studio.NewController(svc)
	if err != nil {
		return err
	}
	if err := applyRunFlags(ctrl, *prompt, *imagePath, *ratio); err != nil {
		return err
	}

	outcome := ctrl.Submit(ctx)
	st := ctrl.State()
	switch outcome {
	case studio.OutcomeSucceeded:
	case studio.OutcomeEmpty:
		return fmt.Errorf("%s", st.Notice)
	case studio.OutcomeSkipped:
		return fmt.Errorf("-prompt is required")
	default:
		return fmt.Errorf("%s", st.Error)
	}

	if err := writeResult(*out, st.Result); err != nil {
		return err
	}
	slog.InfoContext(ctx, "画像を保存しました", "path", *out, "mode", st.Result.Mode)
	return nil
}
