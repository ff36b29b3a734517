package i18n

type Messages struct {
	MenuTitle       string
	MenuGenerate    string
	MenuScan        string
	MenuExit        string
	UnknownCommand  string
	ExitText        string
	Interrupted     string
	PromptCount     string
	PromptWords     string
	PromptBatchSize string
	PromptUsePass   string
	PromptPass      string
	PromptHint      string
	PromptInputDir  string
	PromptWorkers   string
	PromptEndpoint  string
	NoInputFiles    string
	GenerateDone    string
	ScanDone        string
	RunFailed       string
}

func Get(lang string) Messages {
	switch lang {
	case "ru":
		return Messages{
			MenuTitle:       "OsmoTools — стартовое меню",
			MenuGenerate:    "1) Генерация кошельков Osmosis (мнемоника -> osmo1...)",
			MenuScan:        "2) Проверка балансов uosmo по сгенерированным файлам",
			MenuExit:        "0) Выход",
			UnknownCommand:  "Неизвестная команда:",
			ExitText:        "Выход",
			Interrupted:     "Прерывание получено, сохраняю прогресс...",
			PromptCount:     "Сколько кошельков сгенерировать (по умолчанию %d): ",
			PromptWords:     "Слов в мнемонике 12/15/18/21/24 (по умолчанию %d): ",
			PromptBatchSize: "Кошельков в одном файле (по умолчанию %d): ",
			PromptUsePass:   "Использовать BIP-39 passphrase? (y/n): ",
			PromptPass:      "BIP-39 passphrase: ",
			PromptHint:      "Подсказка к passphrase (сохранится в папку логов): ",
			PromptInputDir:  "Папка с файлами кошельков (по умолчанию %s): ",
			PromptWorkers:   "Параллельных запросов (по умолчанию %d): ",
			PromptEndpoint:  "LCD endpoint (по умолчанию %s): ",
			NoInputFiles:    "Файлы кошельков не найдены в %s\n",
			GenerateDone:    "Готово: %d из %d кошельков в %d файлах, %s\n",
			ScanDone:        "Готово: проверено %d, найдено %d, ошибок %d, %s\n",
			RunFailed:       "Ошибка: %v\n",
		}
	default: // "en"
		return Messages{
			MenuTitle:       "OsmoTools — start menu",
			MenuGenerate:    "1) Generate Osmosis wallets (mnemonic -> osmo1...)",
			MenuScan:        "2) Scan generated files for uosmo balances",
			MenuExit:        "0) Exit",
			UnknownCommand:  "Unknown command:",
			ExitText:        "Exit",
			Interrupted:     "Interrupt received, saving progress...",
			PromptCount:     "How many wallets to generate (default %d): ",
			PromptWords:     "Mnemonic words 12/15/18/21/24 (default %d): ",
			PromptBatchSize: "Wallets per file (default %d): ",
			PromptUsePass:   "Use BIP-39 passphrase? (y/n): ",
			PromptPass:      "BIP-39 passphrase: ",
			PromptHint:      "Optional passphrase hint (saved to the run log folder): ",
			PromptInputDir:  "Directory with wallet files (default %s): ",
			PromptWorkers:   "Concurrent requests (default %d): ",
			PromptEndpoint:  "LCD endpoint (default %s): ",
			NoInputFiles:    "No wallet files found in %s\n",
			GenerateDone:    "Done: %d of %d wallets in %d files, %s\n",
			ScanDone:        "Done: checked %d, found %d, failed %d, %s\n",
			RunFailed:       "Error: %v\n",
		}
	}
}
