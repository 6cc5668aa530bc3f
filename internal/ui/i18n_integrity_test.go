package ui_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/life-in-weeks/internal/config"
)

// translationKeys lists every key the UI asks the localizer for.
var translationKeys = []string{
	config.TKeyWinTitle,
	config.TKeyWinSettings,
	config.TKeyWinEvents,
	config.TKeyHeadline,
	config.TKeyIntro,
	config.TKeyLblBirthDate,
	config.TKeyHintBirthDate,
	config.TKeyBtnVisualize,
	config.TKeyBtnReset,
	config.TKeyBtnImport,
	config.TKeyBtnEvents,
	config.TKeyBtnSettings,
	config.TKeyBtnSave,
	config.TKeyBtnCancel,
	config.TKeyBtnAdd,
	config.TKeyBtnBrowse,
	config.TKeyBtnRemove,
	config.TKeyStatsTitle,
	config.TKeyStatLived,
	config.TKeyStatRemaining,
	config.TKeyStatRemainSub,
	config.TKeyStatProgress,
	config.TKeyStatApprox,
	config.TKeyAxisAge,
	config.TKeyAxisWeek,
	config.TKeyCellTitle,
	config.TKeyStateLived,
	config.TKeyStateCurrent,
	config.TKeyStateFuture,
	config.TKeyLegendLived,
	config.TKeyLegendCurrent,
	config.TKeyLegendFuture,
	config.TKeyFooterBirth,
	config.TKeyFooterRow,
	config.TKeyFooterWeeks,
	config.TKeyFooterYears,
	config.TKeyFooterTotal,
	config.TKeyFormatDate,
	config.TKeyNotifReady,
	config.TKeyNotifReadyBody,
	config.TKeyEvtGlobal,
	config.TKeyEvtPersonal,
	config.TKeyEvtEmpty,
	config.TKeyLblTitle,
	config.TKeyLblDate,
	config.TKeyLblDesc,
	config.TKeyEvtOutOfGrid,
	config.TKeyEvtInGrid,
	config.TKeyEvtBirthday,
	config.TKeyLblLanguage,
	config.TKeyHelpLanguage,
	config.TKeyLblTarget,
	config.TKeyHelpTarget,
	config.TKeyLblPort,
	config.TKeyHelpPort,
	config.TKeyLblDensity,
	config.TKeyDensNormal,
	config.TKeyDensSparse,
	config.TKeyLblGeneral,
	config.TKeyLblSource,
	config.TKeyModeCardDAV,
	config.TKeyModeLocal,
	config.TKeyLblURL,
	config.TKeyHelpURL,
	config.TKeyLblUser,
	config.TKeyLblPass,
	config.TKeyLblFooter,
	config.TKeyErrDate,
	config.TKeyErrDateRange,
	config.TKeyErrTarget,
	config.TKeyErrPortReq,
	config.TKeyErrPortNum,
	config.TKeyErrPortRange,
	config.TKeyErrTitle,
	config.TKeyErrImport,
}

func loadLocale(t *testing.T, lang string) map[string]string {
	t.Helper()
	path := filepath.Join("locales", "active."+lang+".json")
	content, err := os.ReadFile(path)
	require.NoError(t, err, "must load %s", path)

	var m map[string]string
	require.NoError(t, json.Unmarshal(content, &m), "%s must be a flat JSON object", path)
	return m
}

// TestI18nIntegrity ensures every key defined in config exists in every locale.
func TestI18nIntegrity(t *testing.T) {
	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			messages := loadLocale(t, lang)
			defined := make(map[string]bool, len(translationKeys))
			for _, k := range translationKeys {
				defined[k] = true
				assert.NotEmptyf(t, messages[k], "key %q is missing in active.%s.json", k, lang)
			}
			for k := range messages {
				assert.Truef(t, defined[k], "key %q in active.%s.json is not defined in config", k, lang)
			}
		})
	}
}

var templateField = regexp.MustCompile(`{{\s*\.(\w+)\s*}}`)

func fields(s string) []string {
	var out []string
	for _, m := range templateField.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	sort.Strings(out)
	return out
}

// TestI18nTemplateFields checks that translations use the same template data.
func TestI18nTemplateFields(t *testing.T) {
	en := loadLocale(t, "en")
	for _, lang := range config.SupportedLanguages {
		if lang == "en" {
			continue
		}
		other := loadLocale(t, lang)
		for k, v := range en {
			assert.Equalf(t, fields(v), fields(other[k]), "template fields of %q differ in %s", k, lang)
		}
	}
}
