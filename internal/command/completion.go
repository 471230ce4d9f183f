package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/obskit/specctlgo/internal/meta"
)

const bashCompletionScript = `# bash completion for specctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_specctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "sq fq xq cq fetch install purge diff probe completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--attrs -a --color -c --filter -f --output -o --sort -s --titles -t --tldr"

    case "$cmd" in
        sq)
            local opts="$common --ra --dec --toler"
            ;;
        fq)
            local opts="$common --star --ra --dec --toler --wmin --wmax --dw"
            ;;
        xq)
            local opts="$common --lon --lat --toler"
            ;;
        cq)
            local opts="$common"
            ;;
        fetch)
            local opts="$common"
            ;;
        install)
            local opts="$common --subdir"
            ;;
        purge)
            local opts="--force -y --hours --versions"
            ;;
        diff)
            local opts="$common"
            ;;
        probe)
            local opts="--tldr"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # install takes positional args - files
    if [[ "$cmd" == "install" ]]; then
        COMPREPLY=( $(compgen -o filenames -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _specctl specctl
`

const zshCompletionScript = `#compdef specctl

_specctl() {
  local -a cmds
  cmds=(
    'sq:standard star query'
    'fq:flux query'
    'xq:extinction site query'
    'cq:cache query'
    'fetch:download reference assets'
    'install:install local files into the cache'
    'purge:purge cache entries'
    'diff:diff manifest against the cache'
    'probe:report optional extension availability'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'specctl commands' cmds
    return
  fi

  case $words[2] in
    sq)
      _arguments -C \
        $common \
        '--ra[target right ascension]' \
        '--dec[target declination]' \
        '--toler[matching tolerance, arcmin]'
      ;;
    fq)
      _arguments -C \
        $common \
        '--star[standard star name]' \
        '--ra[target right ascension]' \
        '--dec[target declination]' \
        '--toler[matching tolerance, arcmin]' \
        '--wmin[grid start wavelength]' \
        '--wmax[grid end wavelength]' \
        '--dw[grid step]'
      ;;
    xq)
      _arguments -C \
        $common \
        '--lon[site longitude, deg W]' \
        '--lat[site latitude, deg]' \
        '--toler[matching tolerance, deg]'
      ;;
    fetch)
      _arguments -C $common '*:asset:'
      ;;
    install)
      _arguments -C $common '--subdir[cache subdirectory]' '*:file:_files'
      ;;
    purge)
      _arguments -C \
        '(-y --force)'{-y,--force}'[skip confirmation]' \
        '--hours[purge entries older than hours]' \
        '--versions[remove stale version partitions]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _specctl specctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(os.Stdout, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(os.Stdout, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: specctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "specctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
