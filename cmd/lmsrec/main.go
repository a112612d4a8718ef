// lmsrec 是课程推荐服务的命令行入口。
//
//	lmsrec serve      启动 REST API
//	lmsrec demo       用第一个用户和第一门课程打印三类推荐
//	lmsrec check      检查数据源连接并打印样例数据
//	lmsrec snapshot   把 MongoDB 数据集写入 Redis 快照
//
// 配置见 config.Load：默认值 -> YAML 文件（--config）-> LMSREC_ 环境变量。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/lmsrec/config"
	"github.com/rushteam/lmsrec/pkg/logging"
)

// 构建时通过 ldflags 注入
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions 是所有子命令共享的参数与加载后的配置。
type rootOptions struct {
	configPath string
	logLevel   string

	cfg *config.App
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "lmsrec",
		Short:         "Hybrid course recommender for the LMS",
		Long:          "lmsrec blends collaborative filtering over purchases and progress with TF-IDF content similarity to recommend courses.",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			cfg.Log.Output = cmd.ErrOrStderr()
			logging.Init(cfg.Log)
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to YAML config (default $LMSREC_CONFIG or ./lmsrec.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newDemoCmd(opts),
		newCheckCmd(opts),
		newSnapshotCmd(opts),
	)
	return root
}
