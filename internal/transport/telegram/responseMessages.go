package telegram

const (
	internalErrMsg string = "что-то пошло не так..."

	startMsg string = `Привет! Этот бот позволяет получить предсказание по книге. Прямо как в реальной жизни. Выберите одну из доступных книг (/book), напишите страницу и желаемую строчку. Вы получите отрывок из книги, который и будет вашим предсказанием!

<i>Больше информации и помощь: </i> /help`

	helpMsg string = `Этот бот позволяет получить предсказание по книге.

<b>Работа с ботом:</b>
1. Для начала вам нужно выбрать книгу
    /book — выводит список доступных книг.
Вам необязательно каждый раз заново выбирать книгу, вы можете сделать это один раз.
2. После того как вы выбрали книгу, можно получить предсказание. Для этого отправьте сообщение с номером страницы, к примеру <i>109</i>.
Затем отправьте номер предложения, например <i>17</i>.
Вы получите отрывок из книги, который и будет вашим предсказанием.
3. После того как вы получили предсказание, вы можете получить ещё одно: просто напишите номер страницы и следуйте инструкциям из предыдущего пункта, кроме того вы можете выбрать другую книгу.

<b>Список команд:</b>
/start — начало работы с ботом.
/book — выводит список доступных книг.
/cancel — отмена предыдущего действия. Например, вы написали команду /book, а потом передумали.
/help — показать это сообщение`

	activeStartMsg    string = "Предлагаем вам выбрать понравившуюся книгу и получить предсказание! Помощь /help"
	invalidButtonMsg  string = "К сожалению эта кнопка не работает! Попробуйте отправить команду заново."
	errValueMsg       string = "Невозможно выбрать такую книгу. Попробуйте использовать команду заново"
	selectPageMsg     string = "Напишите номер страницы, на которой будет ваше предсказание."
	maxPagePhrase     string = "\nДля вашей книги доступны страницы с <b>1</b> до <b>%d</b>."
	selectSentMsg     string = "Отлично! Теперь напишите номер предложения."
	maxSentPhrase     string = "\nМожно выбрать предложение с <b>1</b> по <b>%d</b>."
	errSelectPageMsg  string = "К сожалению, не получится выбрать страницу с таким номером."
	emptyPageMsg      string = "На этой странице нет предложений. Попробуйте выбрать другую страницу."
	errSelectSentMsg  string = "Такого предложения нет на странице, которую вы выбрали."
	verifyMsg         string = "Вы выбрали предложение %d на странице %d."
	divinationMsg     string = "Ваше предсказание: \n<b>%s</b>"
	errNoPageMsg      string = "Вы не можете выбрать предложение пока не выберите страницу!"
	cancelActionMsg   string = "Действие отменено"
	nothingCancelMsg  string = "Сейчас нечего отменять."
	unknownCommandMsg string = "Неизвестная комманда. Помощь /help"
	bookIsNullMsg     string = "Для начала выберите книгу с помощью команды /book"

	inaccessibleCommandMsg string = `Сейчас нельзя использовать такую комманду, так как вы ещё не завершили предыдущее действие.
Чтобы отменить его, используйте /cancel`
)
