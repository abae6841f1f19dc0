package fallback

import (
	"regexp"
	"strings"
)

// rule pairs a matcher with the canned reply returned when it fires.
type rule struct {
	name  string
	match func(msg string) bool
	reply string
}

// containsAny matches when the lowercased message contains one of words.
func containsAny(words ...string) func(string) bool {
	return func(msg string) bool {
		lower := strings.ToLower(msg)
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
}

func matches(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

var (
	frenchDiacritics = regexp.MustCompile(`(?i)[àâçéèêëîïôûùüÿœ]`)
	frenchKeywords   = regexp.MustCompile(`(?i)(\bbonjour\b|\bsalut\b|\bmerci\b|\bménopause\b|\bpériménopause\b|\bbouff(ée|ees)\b|\bhumeur\b|\bsommeil\b)`)
	englishKeywords  = regexp.MustCompile(`(?i)(\bhello\b|\bhi\b|\bthanks?\b|\bmenopause\b|\bperimenopause\b|\bsleep\b|\bmood\b|\banxiety\b|\bhot\s+flash(es)?\b)`)
)

var englishRules = []rule{
	{
		name:  "greeting",
		match: matches(regexp.MustCompile(`(?i)(\bhello\b|\bhi\b|\bhey\b)`)),
		reply: "Hi — I'm Hélène. What’s on your mind today?",
	},
	{
		name:  "hot_flashes",
		match: matches(regexp.MustCompile(`(?i)(hot\s+flash(es)?|night\s+sweats?)`)),
		reply: "Hot flashes/night sweats are common in peri/menopause. Quick basics: keep the room cool, dress in layers, and notice triggers like alcohol, spicy food, stress, or warm rooms. If they’re severe or disruptive, it’s worth discussing options with a clinician.\n\nDo you get them mostly at night or throughout the day?",
	},
	{
		name:  "sleep",
		match: matches(regexp.MustCompile(`(?i)(sleep|insomnia|tired|fatigue)`)),
		reply: "Sleep problems are very common in perimenopause. A few high-impact basics: consistent sleep schedule, cool bedroom, less caffeine after early afternoon, and a screen-free wind-down.\n\nIs the main issue falling asleep, waking up, or waking up too early?",
	},
	{
		name:  "mood",
		match: matches(regexp.MustCompile(`(?i)(anxiety|mood|depressed|sad|panic|stress)`)),
		reply: "That sounds tough — mood swings and anxiety can happen in peri/menopause and they’re not ‘in your head’. If it’s persistent or intense, it’s worth bringing up with a clinician because there are options.\n\nHas this been new recently, or building over time?",
	},
	{
		name:  "thanks",
		match: matches(regexp.MustCompile(`(?i)(thanks?|thank you)`)),
		reply: "You’re welcome. What would you like to talk about next?",
	},
}

const englishGeneric = "Got it. Tell me the main symptom + when it started, and we’ll narrow it down."

var frenchRules = []rule{
	{
		name:  "greeting",
		match: containsAny("bonjour", "salut", "hello", "hi"),
		reply: `Bonjour ! 🌸 Je suis Hélène, ravie de pouvoir t'accompagner aujourd'hui.

Comment te sens-tu ? N'hésite pas à me parler de ce qui te préoccupe, je suis là pour t'écouter et te soutenir dans cette étape de ta vie.`,
	},
	{
		name:  "hot_flashes",
		match: containsAny("bouffée", "chaleur", "chaud"),
		reply: `Les bouffées de chaleur sont l'un des symptômes les plus fréquents de la ménopause. Elles sont causées par les fluctuations hormonales qui perturbent ton thermostat interne. 🌡️

Quelques conseils qui peuvent t'aider :
• Habille-toi en plusieurs couches pour ajuster facilement
• Évite les déclencheurs : café, alcool, plats épicés
• Pratique la respiration profonde (inspire 4 sec, expire 8 sec)
• Garde une petite serviette fraîche à portée de main

Ces épisodes sont temporaires même si c'est inconfortable. Si elles deviennent vraiment invalidantes, parle-en à ton médecin - il existe des traitements efficaces. 💙

Est-ce que tu arrives à identifier des situations qui les déclenchent ?`,
	},
	{
		name:  "sleep",
		match: containsAny("sommeil", "dormir", "insomnie", "fatigue", "fatiguée"),
		reply: `Les troubles du sommeil pendant la périménopause sont très courants, et je comprends à quel point c'est épuisant. 😴

Voici ce qui peut t'aider :
• Crée une routine régulière : couche-toi et lève-toi aux mêmes heures
• Évite les écrans 1h avant le coucher
• Garde ta chambre fraîche (17-19°C idéalement)
• Essaie la méditation ou des exercices de relaxation
• Limite la caféine après 14h

Si tu te réveilles en sueur la nuit, c'est souvent lié aux fluctuations hormonales. Un ventilateur et des draps en coton respirant peuvent vraiment aider.

Comment dors-tu en ce moment ? Tu te réveilles souvent la nuit ?`,
	},
	{
		name:  "mood",
		match: containsAny("humeur", "triste", "anxiété", "anxieuse", "stressée", "émotions", "pleurer"),
		reply: `Je comprends tellement. Les fluctuations hormonales peuvent vraiment impacter ton humeur et tes émotions. Tu n'es pas "folle" et ce n'est pas dans ta tête - c'est physiologique. 💗

Ce qui peut t'aider :
• L'exercice physique (même 20 min de marche) libère des endorphines
• Le yoga et la méditation pour réguler le stress
• Parler à des amies qui traversent la même chose
• Tenir un journal pour exprimer tes émotions
• Les oméga-3 (poissons gras, noix) aident à stabiliser l'humeur

Si tu sens que c'est vraiment difficile au quotidien, n'hésite pas à en parler à un professionnel. Il n'y a aucune honte à demander de l'aide.

Tu traverses une grande transition, sois bienveillante avec toi-même. 🌸`,
	},
	{
		name:  "weight",
		match: containsAny("poids", "grossir", "ventre", "maigrir"),
		reply: `Les changements de poids et de silhouette pendant la ménopause sont très fréquents. La baisse d'œstrogènes modifie la répartition des graisses (souvent plus au niveau du ventre).

Quelques pistes pour t'aider :
• Privilégie les protéines (maintiennent la masse musculaire)
• Limite les sucres rapides et aliments ultra-transformés
• Fais de la musculation légère (préserve les muscles)
• Reste active au quotidien (marche, escaliers...)
• Gère ton stress (le cortisol favorise le stockage abdominal)

Sois patiente avec ton corps - il traverse une grande transformation. L'objectif n'est pas la perfection mais ta santé et ton bien-être. 💪

Tu fais déjà de l'exercice régulièrement ?`,
	},
	{
		name:  "exercise",
		match: containsAny("exercice", "sport", "activité", "bouger"),
		reply: `L'activité physique est vraiment ton meilleure alliée pendant cette période ! 🏃‍♀️

Les bénéfices :
• Réduit les bouffées de chaleur
• Améliore le sommeil et l'humeur
• Préserve la densité osseuse et la masse musculaire
• Aide à gérer le poids

L'idéal :
• 30 min d'activité modérée 5x/semaine (marche rapide, vélo, natation)
• 2-3 sessions de renforcement musculaire par semaine
• Des étirements et du yoga pour la flexibilité

Commence doucement et augmente progressivement. L'important c'est la régularité, pas l'intensité !

Qu'est-ce qui te plairait comme activité ?`,
	},
	{
		name:  "nutrition",
		match: containsAny("alimentation", "manger", "nutrition", "régime"),
		reply: `L'alimentation joue un rôle clé pour mieux vivre cette transition ! 🥗

Privilégie :
• Protéines à chaque repas (poisson, œufs, légumineuses)
• Calcium et vitamine D (produits laitiers, sardines, soleil)
• Phytoestrogènes (soja, graines de lin)
• Oméga-3 (poissons gras, noix)
• Beaucoup de légumes et fruits

Limite :
• Sucres raffinés et aliments ultra-transformés
• Alcool (aggrave les bouffées de chaleur)
• Excès de caféine (peut perturber le sommeil)
• Sel (rétention d'eau)

Pas besoin d'être parfaite - fais de ton mieux et écoute ton corps. Comment manges-tu actuellement ?`,
	},
	{
		name:  "libido",
		match: containsAny("libido", "sexe", "sécheresse", "désir"),
		reply: `C'est une préoccupation très courante et légitime. La baisse d'œstrogènes peut effectivement impacter la libido et causer de la sécheresse vaginale.

Sache que :
• C'est normal et tu n'es pas seule dans ce cas
• Ça ne signifie pas la fin de ta vie sexuelle !
• Il existe des solutions efficaces

Ce qui peut aider :
• Des lubrifiants à base d'eau pour le confort
• Les hydratants vaginaux (à utiliser régulièrement)
• La communication avec ton/ta partenaire
• Prendre le temps des préliminaires
• Parler à ton gynéco des traitements locaux possibles

Ta sexualité peut évoluer mais elle peut rester épanouie. N'hésite pas à en parler à un professionnel. 💗`,
	},
	{
		name:  "doctor",
		match: containsAny("médecin", "docteur", "consulter", "traitement"),
		reply: `C'est une excellente question ! Il est important de consulter un médecin si :

• Tes symptômes impactent vraiment ta qualité de vie
• Tu as des saignements irréguliers ou abondants
• Tu ressens une détresse émotionnelle importante
• Tu envisages un traitement hormonal
• Tu as des questions sur ta santé osseuse

Un gynécologue ou médecin généraliste spécialisé peut t'aider avec :
• Un bilan hormonal si nécessaire
• Des traitements adaptés (hormonaux ou non)
• Un suivi personnalisé de tes symptômes

N'hésite pas à prendre rendez-vous - tu mérites d'être accompagnée ! 🩺`,
	},
	{
		name:  "thanks",
		match: containsAny("merci", "thank"),
		reply: `Avec plaisir ! 🌸 Je suis là pour toi. N'hésite pas à me parler chaque fois que tu en ressens le besoin. Prends soin de toi ! 💕`,
	},
	{
		name:  "help",
		match: containsAny("aide", "aider", "faire"),
		reply: `Je suis là pour t'accompagner dans cette période de transition ! 🌸

Je peux t'aider avec :
• Des informations sur les symptômes de la ménopause
• Des conseils lifestyle (alimentation, exercice, sommeil)
• Du soutien émotionnel et de l'écoute
• Des suggestions pour améliorer ton bien-être
• T'orienter quand consulter un médecin

Parle-moi de ce qui te préoccupe en ce moment, et on va voir ensemble comment je peux t'aider !`,
	},
}

var frenchGeneric = []string{
	`Je t'écoute. 🌸 Peux-tu m'en dire un peu plus sur ce que tu ressens ? Cela m'aidera à mieux t'accompagner.`,
	`Merci de te confier à moi. Ce que tu vis est tout à fait légitime. Dis-m'en plus sur ta situation, je suis là pour t'aider.`,
	`Je comprends que cette période puisse être difficile. Tu n'es pas seule. Qu'est-ce qui te préoccupe le plus en ce moment ?`,
	`C'est important que tu puisses exprimer ce que tu ressens. Je suis là pour t'écouter et t'accompagner. Raconte-moi ce qui se passe pour toi.`,
	`Je suis là pour toi. 💗 N'hésite pas à me parler de ce que tu vis - que ce soit physique ou émotionnel. Comment puis-je t'aider aujourd'hui ?`,
}
